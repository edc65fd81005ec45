/*
Package jwtscreen provides HTTP middleware that screens bearer tokens for
well-known JWT attacks before any signature verification takes place.

The middleware extracts a compact-serialized token from the request, runs it
through a screener.Screener, and refuses the request when the token is
unsigned (alg:none), HMAC-signed (key confusion), expired, malformed, or
issued by an unexpected party. Accepted tokens are decoded and stored in the
request context.

# Quick Start

	import (
	    jwtscreen "github.com/jwtscreen/go-jwt-screen"
	    "github.com/jwtscreen/go-jwt-screen/screener"
	)

	func main() {
	    s, err := screener.New("https://issuer.example")
	    if err != nil {
	        log.Fatal(err)
	    }

	    middleware, err := jwtscreen.New(
	        jwtscreen.WithScreener(s),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.Handle("/api/", middleware.CheckToken(apiHandler))
	    http.ListenAndServe(":8080", nil)
	}

# Accessing the screened token

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    token, err := jwtscreen.GetScreenedToken(r.Context())
	    if err != nil {
	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
	        return
	    }
	    fmt.Fprintf(w, "hello, %s", token.Claims.Subject)
	}

# What this is not

Screening is a pre-verification sanity layer. It never verifies signatures
and never fetches keys, so it cannot by itself prove a token authentic.
Place it in front of (or inside the same stack as) a verifying validator.

The framework/gin, framework/echo and framework/grpc packages adapt the
same screening flow to other transports, and the probe package drives the
screener against a deliberately hostile token issuer.
*/
package jwtscreen

// Package authsdk is the client side of the auth service and the home of
// the error taxonomy both sides speak.
//
// Downstream services typically wrap protected routes:
//
//	auth := authsdk.NewClient("http://auth:3001")
//	mux.Handle("GET /users/me", authsdk.Authenticate(auth)(meHandler))
//
// and read the caller inside the handler:
//
//	id, _ := authsdk.IdentityFromContext(r.Context())
//
// Every failure returned by Client methods is an *Error. Match on kind with
// errors.Is:
//
//	if errors.Is(err, authsdk.ErrUpstreamUnavailable) {
//		// auth service unreachable, retry later
//	}
package authsdk

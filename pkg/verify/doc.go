// Package verify answers whether a sender address may be used as-is
// because SES has verified it.
//
// An address counts as verified when SES reports "Success" for the exact
// address or for its domain (the text after the first "@"). Both are
// queried in one GetIdentityVerificationAttributes call and the answer is
// cached per exact address string for seven days:
//
//	v := verify.New(accessor, cache.NewMemory[bool]())
//	if v.IsVerified(ctx, "noreply@example.com") {
//	    // keep the requested From header
//	}
//
// IsVerified fails closed: with no SES client, or when the lookup fails,
// it reports false and stores nothing, so the next call asks again.
// [Verifier.Check] and [Verifier.Identities] are uncached variants for the
// admin status report that return classified errors instead.
package verify

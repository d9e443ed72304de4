// Package gate decides whether outgoing mail is routed through SES.
//
// The decision combines the persisted enabled flag with a force-enable
// override carried in the context, then runs the result through an ordered
// chain of predicates:
//
//	g := gate.New(store, gate.WithPredicate(10, maintenanceWindow))
//	if g.IsEnabled(ctx) {
//	    // substitute the SES transport
//	}
//
// Administrative sends that must go through SES before the operator has
// enabled it run under [WithForcedEnable]. The override lives only in the
// derived context handed to the action, so it ends with the action however
// the action ends and never reaches other requests.
package gate

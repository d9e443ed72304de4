// Package settings persists the two operator-controlled values of the
// dispatch layer: the sender options and the SES enabled flag.
//
// Values are stored under their historical option names so existing
// deployments keep their configuration:
//
//	aws_auto_ses_options  {"from": "noreply@example.com", "use_verified": true}
//	aws_auto_ses_enabled  true
//
// Three [Store] backends are provided: [Memory] for tests and single-node
// development, [Redis] for shared state across instances and [Postgres]
// for deployments that already run a database (schema applied with
// [Migrate]). The core reads these values fresh on every send decision and
// never caches them.
package settings

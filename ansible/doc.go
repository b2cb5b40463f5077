// Package ansible adapts health queries to the binary module protocol of
// Ansible: the program receives the path of a JSON arguments file and
// prints exactly one JSON object on stdout.
//
// Supported arguments:
//
//	hostname        string, required
//	port            int, default 443
//	data            dict, default {"name": "Top Table Counts"}
//	headers         dict, default {"Content-Type": "application/json"}
//	scheme          "https" or "http", default "https"
//	path            string, default "/api/v1/management/health"
//	category        string, default "Database"
//	name            string, default "Top Table Counts"
//	timeout         int seconds, default 600
//	fail_on_status  bool, default false
//	validate_certs  bool, default true
//
// A successful query returns {"changed": false, "msg": <body>, ...}. Any
// failure returns {"failed": true, "msg": <error>, "exception": <diagnostic>}.
package ansible

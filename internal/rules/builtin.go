package rules

import (
	"regexp"

	"logtriage/internal/incident"
)

// http5xxPattern matches server-error status markers: "HTTP 500",
// "status 503", "502 Bad Gateway", or a literal "5xx". Text is lowercased
// before matching.
var http5xxPattern = regexp.MustCompile(`(?:http|status(?: code)?)[^\n]{0,10}\b5\d{2}\b|\b5\d{2}\s+(?:internal server error|bad gateway|service unavailable|gateway time ?-?out)|\b5xx\b`)

// BuiltIn returns the built-in signature rules in priority order.
// Specific signatures come first: a database connection refusal outranks
// a bare connection refusal, and concrete status markers outrank generic
// timeout or exception wording.
func BuiltIn() []Rule {
	return []Rule{
		{
			Name:        "database-connection-failure",
			AllKeywords: []string{"econnrefused"},
			AnyKeywords: []string{"postgres", "mysql", "mariadb", "mongodb", "mongo", "redis", "database", "db"},
			Template: Template{
				IssueType:    "Database connection failure",
				RootCause:    "The application could not open a TCP connection to its database; the database process is down, not yet listening, or unreachable from this host.",
				SuggestedFix: []string{"Verify the database process is running and healthy", "Check that the configured host and port match where the database listens", "Inspect firewall and security-group rules between application and database", "Review recent database restarts or failovers in the same time window"},
				Severity:     incident.SeverityCritical,
				Category:     "database",
				Confidence:   95,
				RelatedLogs:  []string{"ECONNREFUSED", "connection refused", "could not connect to server"},
			},
		},
		{
			Name:        "connection-refused",
			AllKeywords: []string{"econnrefused"},
			Template: Template{
				IssueType:    "Connection refused by remote service",
				RootCause:    "A downstream service actively refused the connection, which usually means nothing is listening on the target port.",
				SuggestedFix: []string{"Confirm the target service is running and bound to the expected port", "Check service discovery or load balancer configuration for stale endpoints", "Retry with backoff if the dependency is restarting"},
				Severity:     incident.SeverityHigh,
				Category:     "network",
				Confidence:   90,
				RelatedLogs:  []string{"ECONNREFUSED", "connection refused"},
			},
		},
		{
			Name:        "out-of-memory",
			AnyKeywords: []string{"out of memory", "oom-killer", "oomkilled", "cannot allocate memory", "outofmemoryerror"},
			Template: Template{
				IssueType:    "Out of memory",
				RootCause:    "A process exhausted available memory and was killed or failed an allocation.",
				SuggestedFix: []string{"Check memory limits and recent changes to workload size", "Look for a leak: compare memory growth against request volume", "Raise the memory limit or add capacity if the workload is legitimately larger"},
				Severity:     incident.SeverityCritical,
				Category:     "resource",
				Confidence:   92,
				RelatedLogs:  []string{"out of memory", "OOM-killer", "OOMKilled", "OutOfMemoryError"},
			},
		},
		{
			Name:        "disk-full",
			AnyKeywords: []string{"no space left on device", "disk full", "enospc"},
			Template: Template{
				IssueType:    "Disk space exhausted",
				RootCause:    "A write failed because the filesystem has no free space.",
				SuggestedFix: []string{"Identify the largest growing files or directories on the affected volume", "Rotate or compress logs and purge temporary files", "Expand the volume or add retention policies to prevent recurrence"},
				Severity:     incident.SeverityCritical,
				Category:     "resource",
				Confidence:   92,
				RelatedLogs:  []string{"no space left on device", "ENOSPC"},
			},
		},
		{
			Name:    "http-server-error",
			Pattern: http5xxPattern,
			Template: Template{
				IssueType:    "HTTP server error responses",
				RootCause:    "An upstream or local HTTP service returned 5xx responses, indicating a server-side failure rather than a client mistake.",
				SuggestedFix: []string{"Correlate the 5xx burst with deployments or dependency incidents", "Check the failing service's own logs for the underlying exception", "Verify health checks and consider rolling back the most recent change"},
				Severity:     incident.SeverityHigh,
				Category:     "application",
				Confidence:   85,
				RelatedLogs:  []string{"HTTP 500", "502 Bad Gateway", "503 Service Unavailable", "5xx"},
			},
		},
		{
			Name:        "timeout",
			AnyKeywords: []string{"timeout", "timed out", "etimedout", "deadline exceeded"},
			Template: Template{
				IssueType:    "Operation timeout",
				RootCause:    "An operation exceeded its time budget, typically a slow or unresponsive dependency or an undersized timeout.",
				SuggestedFix: []string{"Identify which dependency the timed-out call targets", "Check that dependency's latency and saturation metrics", "Tune timeout and retry budgets once the slow component is known"},
				Severity:     incident.SeverityHigh,
				Category:     "network",
				Confidence:   80,
				RelatedLogs:  []string{"timeout", "timed out", "ETIMEDOUT", "context deadline exceeded"},
			},
		},
		{
			Name:        "authentication-failure",
			AnyKeywords: []string{"authentication failed", "invalid credentials", "login failed", "unauthorized", "401"},
			Template: Template{
				IssueType:    "Authentication failure",
				RootCause:    "Requests were rejected because credentials were missing, expired, or wrong.",
				SuggestedFix: []string{"Check whether a credential, token, or certificate rotated recently", "Verify the identity provider or auth service is healthy", "Audit for repeated failures from a single source, which may indicate probing"},
				Severity:     incident.SeverityHigh,
				Category:     "authentication",
				Confidence:   85,
				RelatedLogs:  []string{"authentication failed", "invalid credentials", "401 Unauthorized"},
			},
		},
		{
			Name:        "permission-denied",
			AnyKeywords: []string{"permission denied", "access denied", "forbidden", "403", "eacces"},
			Template: Template{
				IssueType:    "Permission denied",
				RootCause:    "An operation was blocked by authorization rules or filesystem permissions.",
				SuggestedFix: []string{"Compare the acting identity's roles against what the operation requires", "Check for recent policy, ACL, or file-ownership changes", "Grant the minimal missing permission rather than broadening access"},
				Severity:     incident.SeverityMedium,
				Category:     "authorization",
				Confidence:   82,
				RelatedLogs:  []string{"permission denied", "access denied", "403 Forbidden", "EACCES"},
			},
		},
		{
			Name:        "tls-certificate-error",
			AnyKeywords: []string{"certificate verify failed", "x509", "tls handshake", "certificate has expired", "ssl error"},
			Template: Template{
				IssueType:    "TLS certificate problem",
				RootCause:    "A TLS handshake failed, most often due to an expired, untrusted, or mismatched certificate.",
				SuggestedFix: []string{"Check the certificate's expiry date and subject names", "Verify the full chain is served and trusted by the client", "Renew and redeploy the certificate if it has expired"},
				Severity:     incident.SeverityHigh,
				Category:     "security",
				Confidence:   85,
				RelatedLogs:  []string{"certificate verify failed", "x509", "TLS handshake error"},
			},
		},
		{
			Name:        "process-crash",
			AnyKeywords: []string{"panic:", "segmentation fault", "sigsegv", "core dumped", "stack overflow"},
			Template: Template{
				IssueType:    "Process crash",
				RootCause:    "A process terminated abnormally from a panic or memory access violation.",
				SuggestedFix: []string{"Capture the stack trace and identify the crashing code path", "Check whether a recent deploy introduced the crash", "Roll back or patch the offending change and add a regression test"},
				Severity:     incident.SeverityCritical,
				Category:     "runtime",
				Confidence:   90,
				RelatedLogs:  []string{"panic:", "segmentation fault", "SIGSEGV"},
			},
		},
		{
			Name:        "deadlock",
			AnyKeywords: []string{"deadlock"},
			Template: Template{
				IssueType:    "Deadlock detected",
				RootCause:    "Two or more transactions or goroutines are waiting on each other's locks.",
				SuggestedFix: []string{"Identify the competing lock holders from the deadlock report", "Order lock acquisition consistently across code paths", "Shorten transactions that hold locks across slow operations"},
				Severity:     incident.SeverityHigh,
				Category:     "application",
				Confidence:   80,
				RelatedLogs:  []string{"deadlock detected"},
			},
		},
		{
			Name:        "dns-resolution-failure",
			AnyKeywords: []string{"no such host", "name resolution", "dns lookup", "enotfound", "servfail"},
			Template: Template{
				IssueType:    "DNS resolution failure",
				RootCause:    "A hostname could not be resolved, pointing at DNS configuration or resolver availability.",
				SuggestedFix: []string{"Confirm the hostname exists in the authoritative zone", "Check resolver reachability from the affected host", "Look for recent DNS or service-discovery changes"},
				Severity:     incident.SeverityHigh,
				Category:     "infrastructure",
				Confidence:   82,
				RelatedLogs:  []string{"no such host", "ENOTFOUND", "SERVFAIL"},
			},
		},
		{
			Name:        "configuration-error",
			AnyKeywords: []string{"configuration error", "invalid configuration", "missing required", "config parse", "unknown flag"},
			Template: Template{
				IssueType:    "Configuration error",
				RootCause:    "The application rejected its configuration at startup or reload.",
				SuggestedFix: []string{"Diff the current configuration against the last known-good version", "Validate configuration in CI before rollout", "Fix or revert the offending setting and reload"},
				Severity:     incident.SeverityMedium,
				Category:     "configuration",
				Confidence:   78,
				RelatedLogs:  []string{"invalid configuration", "missing required", "failed to parse config"},
			},
		},
		{
			Name:        "slow-query",
			AnyKeywords: []string{"slow query", "query took", "long running query"},
			Template: Template{
				IssueType:    "Slow database queries",
				RootCause:    "Queries are exceeding expected latency, typically from missing indexes, lock contention, or data growth.",
				SuggestedFix: []string{"Pull the query plan for the reported statements", "Add or fix indexes covering the slow predicates", "Check for lock contention and table bloat"},
				Severity:     incident.SeverityMedium,
				Category:     "performance",
				Confidence:   78,
				RelatedLogs:  []string{"slow query", "query took"},
			},
		},
	}
}

// genericErrorRule fires when no signature matched but the text still
// contains generic error wording. Its confidence is deliberately low.
var genericErrorRule = Rule{
	Name:        "generic-error",
	AnyKeywords: []string{"error", "failed", "failure", "exception", "fatal", "critical"},
	Template: Template{
		IssueType:    "Unclassified error activity",
		RootCause:    "The log contains error-level activity that does not match a known signature.",
		SuggestedFix: []string{"Inspect the surrounding log context for the first error in the sequence", "Search the error text against known issues for the emitting component"},
		Severity:     incident.SeverityMedium,
		Category:     "application",
		Confidence:   40,
		RelatedLogs:  []string{"error", "exception", "failed"},
	},
}

// noIssueTemplate is the terminal fallback when nothing matched at all.
var noIssueTemplate = Template{
	IssueType:    "No critical issues detected",
	RootCause:    "No known failure signatures or generic error indicators were found in the submitted excerpt.",
	SuggestedFix: []string{"No action required", "Submit a larger excerpt if a problem is suspected but not captured here"},
	Severity:     incident.SeverityLow,
	Category:     "informational",
	Confidence:   55,
	RelatedLogs:  []string{},
}

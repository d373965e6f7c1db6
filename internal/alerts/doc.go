// Package alerts implements the rule evaluation engine and webhook delivery
// for inflamd. Rules are evaluated against every freshly built study report;
// notifications go to generic JSON webhook targets with retried delivery.
package alerts

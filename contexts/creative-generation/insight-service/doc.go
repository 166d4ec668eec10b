// Package insightservice analyzes saved ads. Analyses of ads that come from
// an external ad library are cached per workspace, so only the first request
// for an ad is billed.
package insightservice

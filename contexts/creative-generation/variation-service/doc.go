// Package variationservice generates ad variations for a target product
// asset. A batch is billed up front, each strategy runs in isolation, and
// every unit that fails is refunded individually.
package variationservice

// Package curve samples a model's energy and force across the domain of
// its swept variable.
//
// A Series holds the parallel sample arrays, the marker at the live
// parameter values and the fixed axis scales of the model. Sampling never
// clamps: the exact zero is skipped and any sample whose energy or force
// is not finite is left out of the series.
package curve

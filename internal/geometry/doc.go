// Package geometry builds the 2-D coordinates of interaction diagrams.
//
// It provides value-type points and polylines plus the shape generators
// the diagrams need:
//
//   - [Spring]: a coiled connector that stretches between two tie points
//   - [Arc]: a circular arc marking a bond angle
//   - [Polar]: decomposition of an arrow length along a direction
package geometry

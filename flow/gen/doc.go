// Package gen provides source and utility leaf units: oscillators,
// noise, constants, impulses, panning, mixing and gain staging.
package gen

// ABOUTME: Version and identity constants
// ABOUTME: Reported by the CLI -version flag and the render service health endpoint
package version

const (
	// Version is the release version of the waveform tools
	Version = "0.3.0"
	// Product is the product name reported to clients
	Product = "Resonate Waveform"
	// Manufacturer is the vendor reported to clients
	Manufacturer = "Resonate"
)

// String returns the full version banner
func String() string {
	return Product + " " + Version
}

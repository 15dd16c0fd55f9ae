package cli

// Version is the release version reported by the update checker. Release
// builds override it via
// -ldflags "-X github.com/Fepozopo/pixlab/pkg/cli.Version=x.y.z".
var Version = "0.1.0"

package formwork

// Version is the release of the engine. Release builds override it with
// -ldflags "-X github.com/aretw0/formwork.Version=...".
var Version = "0.1.0-dev"

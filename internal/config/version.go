package config

// Version is the kinnet binary version, set at build time with
// -ldflags "-X github.com/persistorai/kinnet/internal/config.Version=<tag>".
var Version = "dev"

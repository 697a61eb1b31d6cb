package types

// Version is overwritten at build time with -ldflags "-X ...types.Version=v1.2.3"
var Version = "dev"

package types

// Version is overwritten at build time via -ldflags
var Version = "dev"

// ServiceName is used for health responses and mail headers
const ServiceName = "streakmon"

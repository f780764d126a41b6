package workbench

// Version is the workbench release version, overridable at build time via
// -ldflags "-X github.com/couloir/workbench.Version=...".
var Version = "0.4.0"

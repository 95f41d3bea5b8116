package tourforge

// Version is the engine version, stamped into the CLI and the API health
// response.
var Version = "0.3.0"

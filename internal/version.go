package internal

// Version is the current palabra version
const Version = "0.3.0"

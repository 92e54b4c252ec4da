package model

// Version is the current release of xroadfields.
const Version = "0.4.1"

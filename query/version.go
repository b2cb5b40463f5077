package query

// Version is sent in the User-Agent header of every health query.
var Version = "0.1.0"

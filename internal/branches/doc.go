// Package branches implements the branchsweep list, delete, and cleanup commands.
//
// CommandConfiguration holds the tools.branches settings, Service orchestrates
// enumeration and deletion over a gitrepo.Repository, Renderer prints listings,
// and the command builders wire flags, configuration, and execution context into
// Cobra commands.
package branches

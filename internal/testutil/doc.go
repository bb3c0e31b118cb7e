// Package testutil starts throwaway database containers for integration
// tests. Every helper skips the calling test under -short or when no
// container runtime is available.
package testutil

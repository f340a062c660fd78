//go:build !devauth

package middleware

const devAutoLoginCompiled = false

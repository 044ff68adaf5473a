// Package features provides the built-in reducers and actions the shell
// registers by default: the mounted app, persisted settings and URL
// navigation.
package features

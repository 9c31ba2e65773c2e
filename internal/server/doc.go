// Package server exposes the image search as an MCP tool over stdio. It
// decodes tool arguments, runs the search/normalize/composite pipeline and
// assembles the text and image parts of the tool response.
package server

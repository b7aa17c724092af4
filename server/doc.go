// Package server is a development asset server for OPF documents,
// playlists and remap textures.
//
// # Routes
//
//	GET /healthz           liveness probe
//	GET /opf/{path}        the raw OPF document
//	GET /inspect/{path}    the parsed document as JSON
//	GET /playlist/{path}   the parsed playlist as JSON, item URLs resolved
//	GET /files/{path}      any file under the root, as is
//	GET /uvmap/{path}      size and digest of the decoded UV map
//	GET /stats             UV map cache counters
//
// Relative URLs inside inspected documents and playlists resolve against
// /files, so a player pointed at /files/title/index.opf loads its stream and
// remap textures from this server too.
package server

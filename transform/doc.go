// Package transform implements the video transforms an OPF document may
// declare: identity, UV-map remapping and VariSqueeze.
//
// Every transform fills a shader.Selector and reports completion through a
// callback. Identity and VariSqueeze complete before UpdateShader returns.
// UvMap fetches its remap textures first and completes on the tick thread,
// through the loader's dispatch queue.
package transform

// Package shader carries the parameters a renderer needs to draw one
// projection: which textures feed it, which remap textures and ramps apply,
// and which material permutation to use.
//
// Nothing here talks to a GPU. A Selector is filled in by the video
// transform and the player, then turned into a Material instance copied from
// a template Library so shared templates are never mutated:
//
//	sel := shader.NewSelector()
//	transform.UpdateShader(ctx, sel, func(err error) {
//	    p.UpdateShader(sel)
//	    mat, err := lib.Instantiate(shader.Select(sel))
//	    mat.Apply(sel)
//	})
//
// # Material Permutations
//
// The color model (RGB or YUV) and the transform kind pick one of seven
// materials. UV-map transforms with a discontinuity list use the
// discontinuity-aware variant.
package shader

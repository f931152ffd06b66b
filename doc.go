// Package banner renders decoded console channel-banner layouts: a 2D
// scene graph of panes, keyframe animations driving their transforms,
// colors and textures, and a per-pixel software re-implementation of the
// console GPU's fixed-function texture-environment (TEV) combiner.
//
// The package sits between the format decoders and a host UI. Decoders hand
// it fully materialized inputs — a [Layout], zero or more [Animation]
// objects, and a [TextureSet] of raw RGBA pixel buffers — and the host
// drives it one frame at a time:
//
//	r := banner.NewRenderer(layout, textures, banner.RendererOptions{})
//	r.SetAnimations(startAnim, loopAnim)
//
//	frame := image.NewRGBA(image.Rect(0, 0, 608, 456))
//	for {
//		r.Advance(deltaMs) // or r.Seek(globalFrame)
//		r.Render(frame)
//	}
//
// Everything in between — keyframe sampling, track merging, render-state
// substitution, pane state resolution, transform composition, TEV
// evaluation, alpha test, blending — happens synchronously inside Render.
// There is no failure mode: malformed references degrade to drawing less
// (a missing texture renders nothing, a missing material skips the pane, a
// cyclic parent chain is cut), and a frame is always produced.
//
// # Scene graph
//
// A [Layout] holds panes in draw order. Panes form a tree by parent name;
// children inherit transform, and alpha/visibility per the propagation
// rules of the format. Named [Group] sets carry the render-state family
// (mutually exclusive scene states, "RSO" + digits) and locale groupings.
//
// # Animation
//
// An [Animation] holds one [Track] per pane, each a set of typed keyframe
// [Entry] sequences (step, linear or hermite interpolation, with clamp,
// linear or loop extrapolation). Several decoded animation files combine
// with [MergeAnimations]; render-state fragments combine with
// [MergeRenderState]. The [Player] drives the start/loop phase machine and
// the global frame counter.
//
// # Combiner
//
// [EvaluateTev] is a pure function over one pixel's texture, raster,
// constant and register inputs, mirroring the hardware's stage semantics,
// including compare modes and register clamping. [EvalAlphaCompare] is the
// independent alpha-test stage. Materials with no stage program run the
// implicit default returned by [DefaultStages].
//
// The package is single-threaded by contract: the host owns one in-flight
// tick and never overlaps two frame computations on the same renderer.
package banner

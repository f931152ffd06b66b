package banner

import (
	"image"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RendererOptions tune a renderer at construction time.
type RendererOptions struct {
	// Perspective enables the pinhole projection of X/Y-rotated panes;
	// without it their linear part is plain rotation×scale.
	Perspective bool

	// ProjectionDistance parameterizes the pinhole when Perspective is set.
	// Zero selects the default.
	ProjectionDistance float32

	// RotationOrder overrides the axis-application order (default Z, Y, X).
	RotationOrder RotationOrder
}

// Renderer owns every piece of derived per-frame state for one layout: the
// resolved pane states, transform chains, cheap-path classifications and
// premultiplied texture surfaces. It is not safe for concurrent use; the
// host drives one tick at a time (advance or seek, then render).
type Renderer struct {
	// Debug enables per-frame stats logging to stderr.
	Debug bool

	layout   *Layout
	textures TextureSet
	opts     RendererOptions

	player *Player
	start  *Animation // as supplied
	loop   *Animation

	effStart *Animation // with the active render-state merge applied
	effLoop  *Animation

	stateBundle map[int]*Animation
	activeState int

	forceVisible   map[string]bool
	externVisible  func(pane string) (bool, bool)
	externPattern  func(pane string) (int, bool)

	// Per-frame derived state, keyed by (phase, frame); recomputed when the
	// key or any upstream input changes.
	states      []PaneState
	transforms  []PaneTransform
	cacheFrame  float32
	cachePhase  Phase
	cacheValid  bool

	matCheap   []cheapPath // lazy per material index
	cheapValid bool

	premul map[*Texture]*image.RGBA // cheap-path blit surfaces

	stats    frameStats
	disposed bool
}

// NewRenderer creates a renderer over a fully decoded layout and its texture
// pixel buffers. Animations are attached separately.
func NewRenderer(layout *Layout, textures TextureSet, opts RendererOptions) *Renderer {
	return &Renderer{
		layout:      layout,
		textures:    textures,
		opts:        opts,
		player:      NewPlayer(nil, nil),
		activeState: -1,
		premul:      make(map[*Texture]*image.RGBA),
	}
}

// Layout returns the renderer's layout.
func (r *Renderer) Layout() *Layout { return r.layout }

// Player returns the playback state machine driving this renderer.
func (r *Renderer) Player() *Player { return r.player }

// SetAnimations attaches the start-phase and loop-phase animations (either
// may be nil) and resets playback. Multiple decoded fragments for one phase
// should be combined with MergeAnimations first.
func (r *Renderer) SetAnimations(start, loop *Animation) {
	r.start, r.loop = start, loop
	r.player = NewPlayer(start, loop)
	r.applyRenderState()
}

// SetRenderStateBundle supplies the per-state animation fragments, keyed by
// render-state identifier, used by SetRenderState's merge.
func (r *Renderer) SetRenderStateBundle(bundle map[int]*Animation) {
	r.stateBundle = bundle
	r.applyRenderState()
}

// SetRenderState activates one state of the layout's mutually exclusive
// render-state family. The state's animation fragment, augmented from its
// sibling states, is folded into the loop-phase animation. Passing a
// negative id deactivates state merging.
func (r *Renderer) SetRenderState(id int) {
	r.activeState = id
	r.applyRenderState()
}

// RenderState returns the active render-state identifier, or -1.
func (r *Renderer) RenderState() int { return r.activeState }

// RenderStates returns the layout's available render-state identifiers.
func (r *Renderer) RenderStates() []int { return r.layout.RenderStates() }

// Languages returns the layout's locale-convention group names.
func (r *Renderer) Languages() []string { return r.layout.Languages() }

// applyRenderState recomputes the effective animations and invalidates all
// derived state.
func (r *Renderer) applyRenderState() {
	r.effStart, r.effLoop = r.start, r.loop
	if r.activeState >= 0 && r.stateBundle != nil {
		if frag := r.stateBundle[r.activeState]; frag != nil {
			merged := MergeRenderState(frag, r.stateBundle, r.activeState)
			if r.loop != nil {
				r.effLoop = MergeAnimations(r.loop, merged)
			} else {
				r.effLoop = merged
			}
			if r.player.loop == nil && r.effLoop != nil {
				// A state fragment can supply the only loop-phase animation.
				r.player = NewPlayer(r.start, r.effLoop)
			}
		}
	}
	r.invalidate()
}

// SetPaneVisible forces a pane visible or hidden, overriding every other
// visibility source. ClearPaneVisible removes the override.
func (r *Renderer) SetPaneVisible(pane string, visible bool) {
	if r.forceVisible == nil {
		r.forceVisible = make(map[string]bool)
	}
	r.forceVisible[pane] = visible
	r.invalidate()
}

// ClearPaneVisible removes a pane's forced visibility.
func (r *Renderer) ClearPaneVisible(pane string) {
	delete(r.forceVisible, pane)
	r.invalidate()
}

// SetVisibleOverride installs the collaborator visibility hook (locale or
// seasonal substitution). A nil hook restores default behavior.
func (r *Renderer) SetVisibleOverride(fn func(pane string) (bool, bool)) {
	r.externVisible = fn
	r.invalidate()
}

// SetTexPatternOverride installs the collaborator texture-substitution hook.
// The returned index addresses the layout's texture table.
func (r *Renderer) SetTexPatternOverride(fn func(pane string) (int, bool)) {
	r.externPattern = fn
	r.invalidate()
}

// SetMaterialColor rewrites one of a material's combiner seed registers
// (slot 0..2). Derived state depending on the registers is invalidated.
func (r *Renderer) SetMaterialColor(material, slot int, c RGBA) {
	if material < 0 || material >= len(r.layout.Materials) || slot < 0 || slot > 2 {
		return
	}
	r.layout.Materials[material].Colors[slot] = c
	r.invalidate()
	r.cheapValid = false
}

// invalidate drops the per-frame derived state.
func (r *Renderer) invalidate() {
	r.cacheValid = false
}

// Advance moves the playback clock by deltaMs and returns where it landed.
func (r *Renderer) Advance(deltaMs float64) FrameEvent {
	return r.player.Advance(deltaMs)
}

// Seek positions playback at a global frame spanning both phases.
func (r *Renderer) Seek(globalFrame float32) FrameEvent {
	return r.player.Seek(globalFrame)
}

// Play starts the playback clock.
func (r *Renderer) Play() { r.player.Play() }

// Stop halts the playback clock between frames; the in-progress frame is
// never interrupted.
func (r *Renderer) Stop() { r.player.Stop() }

// Reset rewinds playback to the first phase.
func (r *Renderer) Reset() {
	r.player.Reset()
	r.invalidate()
}

// SetStartFrame forwards the loop-phase entry offset to the player.
func (r *Renderer) SetStartFrame(frame float32) { r.player.SetStartFrame(frame) }

// Dispose releases all cached derived surfaces and buffers. The renderer
// renders nothing afterwards.
func (r *Renderer) Dispose() {
	r.disposed = true
	r.states = nil
	r.transforms = nil
	r.matCheap = nil
	r.premul = nil
	r.textures = nil
	r.cacheValid = false
}

// Render draws the current playback position into dst. The surface is not
// cleared first; the caller owns that.
func (r *Renderer) Render(dst *image.RGBA) {
	r.RenderFrame(r.player.Frame(), dst)
}

// RenderFrame draws one frame of the active phase into dst. A frame is
// always produced: every failure mode inside degrades to drawing less, never
// to an error.
func (r *Renderer) RenderFrame(frame float32, dst *image.RGBA) {
	if r.disposed || r.layout == nil || dst == nil {
		return
	}
	t0 := time.Now()
	r.resolveFrame(frame)
	if r.Debug {
		r.stats.resolveTime = time.Since(t0)
		t0 = time.Now()
	}

	view := Affine{1, 0, 0, 1, r.layout.Width / 2, r.layout.Height / 2}
	sx := float32(dst.Bounds().Dx())
	sy := float32(dst.Bounds().Dy())
	if r.layout.Width > 0 && r.layout.Height > 0 {
		view = mulAffine(Affine{sx / r.layout.Width, 0, 0, sy / r.layout.Height, 0, 0},
			Affine{1, 0, 0, 1, r.layout.Width / 2, r.layout.Height / 2})
	}

	r.stats.panes = len(r.layout.Panes)
	r.stats.drawn, r.stats.culled, r.stats.cheapHits = 0, 0, 0
	for i := range r.layout.Panes {
		p := &r.layout.Panes[i]
		if p.Kind != PanePicture && p.Kind != PaneWindow {
			continue
		}
		pt := &r.transforms[i]
		if !pt.Visible || pt.Alpha <= 0 {
			r.stats.culled++
			continue
		}
		if p.Material < 0 || p.Material >= len(r.layout.Materials) {
			continue // a broken material reference skips the pane
		}
		r.drawPane(dst, i, mulAffine(view, pt.M))
	}

	if r.Debug {
		r.stats.rasterTime = time.Since(t0)
		r.debugLog()
	}
}

// resolveFrame recomputes the per-pane state and transform tables for one
// frame, reusing them when nothing changed since the last call.
func (r *Renderer) resolveFrame(frame float32) {
	phase := r.player.Phase()
	if r.cacheValid && r.cacheFrame == frame && r.cachePhase == phase {
		return
	}

	anim := r.activeAnimation()
	baseAnim, baseFrame := r.player.Base()
	if baseAnim == r.start && r.effStart != nil {
		baseAnim = r.effStart
	}

	if cap(r.states) < len(r.layout.Panes) {
		r.states = make([]PaneState, len(r.layout.Panes))
		r.transforms = make([]PaneTransform, len(r.layout.Panes))
	}
	r.states = r.states[:len(r.layout.Panes)]
	r.transforms = r.transforms[:len(r.layout.Panes)]

	for i := range r.layout.Panes {
		p := &r.layout.Panes[i]
		in := resolveInput{
			Track:          anim.Track(p.Name),
			Frame:          frame,
			Base:           baseAnim.Track(p.Name),
			BaseFrame:      baseFrame,
			LayoutTextures: r.layout.Textures,
		}
		if anim != nil {
			in.AnimTextures = anim.Textures
		}
		if baseAnim != nil {
			in.BaseTextures = baseAnim.Textures
		}
		if p.Material >= 0 && p.Material < len(r.layout.Materials) {
			m := &r.layout.Materials[p.Material]
			in.MatColors = m.Colors
			in.TexMaps = m.TexMaps
		} else {
			in.MatColors = [3]RGBA{White, White, White}
		}
		if v, ok := r.forceVisible[p.Name]; ok {
			vv := v
			in.HostVisible = &vv
		}
		if r.externVisible != nil {
			if v, ok := r.externVisible(p.Name); ok {
				vv := v
				in.ExternalVisible = &vv
			}
		}
		if r.externPattern != nil {
			if idx, ok := r.externPattern(p.Name); ok {
				ii := idx
				in.ExternalTexPattern = &ii
			}
		}
		r.states[i] = resolvePaneState(p, in)
	}

	copts := ComposeOptions{
		Perspective:        r.opts.Perspective,
		ProjectionDistance: r.opts.ProjectionDistance,
		RotationOrder:      r.opts.RotationOrder,
	}
	for i := range r.layout.Panes {
		r.transforms[i] = composeTransform(r.layout, i, r.states, copts)
	}

	r.cacheFrame = frame
	r.cachePhase = phase
	r.cacheValid = true
}

// activeAnimation returns the effective animation for the player's phase.
func (r *Renderer) activeAnimation() *Animation {
	switch r.player.Phase() {
	case PhaseStart:
		return r.effStart
	case PhaseLoop:
		return r.effLoop
	default:
		if r.effStart != nil {
			return r.effStart
		}
		return r.effLoop
	}
}

// PaneState returns the resolved state of a named pane at the current
// cached frame, resolving the frame first if needed. ok is false for an
// unknown pane.
func (r *Renderer) PaneState(name string) (PaneState, bool) {
	i := r.layout.PaneIndex(name)
	if i < 0 {
		return PaneState{}, false
	}
	r.resolveFrame(r.player.Frame())
	return r.states[i], true
}

// PaneTransform returns the composited transform/alpha/visibility of a named
// pane at the current cached frame.
func (r *Renderer) PaneTransform(name string) (PaneTransform, bool) {
	i := r.layout.PaneIndex(name)
	if i < 0 {
		return PaneTransform{}, false
	}
	r.resolveFrame(r.player.Frame())
	return r.transforms[i], true
}

// materialCheap lazily classifies each material's stage program for the
// shortcut paths.
func (r *Renderer) materialCheap(mi int) cheapPath {
	if !r.cheapValid || r.matCheap == nil {
		r.matCheap = make([]cheapPath, len(r.layout.Materials))
		for i := range r.layout.Materials {
			m := &r.layout.Materials[i]
			stages := m.Stages
			if len(stages) == 0 {
				stages = defaultTevStages
				// The default program collapses to plain modulate when the
				// seed registers are white.
				if m.Colors[0] == White && m.Colors[1] == White {
					r.matCheap[i] = cheapModulate
					continue
				}
			}
			r.matCheap[i] = classifyStages(stages)
		}
		r.cheapValid = true
	}
	return r.matCheap[mi]
}

// paneTexture resolves the texture for one material map, honoring an
// animated pattern substitution for map 0.
func (r *Renderer) paneTexture(s *PaneState, m *Material, mapIdx int) *Texture {
	ti := m.TexMaps[mapIdx].Texture
	if mapIdx == 0 && s.TexPattern >= 0 {
		ti = s.TexPattern
	}
	if ti < 0 || ti >= len(r.layout.Textures) {
		return nil // out-of-range index reads as no texture
	}
	return r.textures[r.layout.Textures[ti]]
}

// premulImage returns (building on first use) the premultiplied image.RGBA
// view of a texture used by the cheap-path blit.
func (r *Renderer) premulImage(t *Texture) *image.RGBA {
	if img, ok := r.premul[t]; ok {
		return img
	}
	img := image.NewRGBA(image.Rect(0, 0, t.W, t.H))
	for i := 0; i+3 < len(t.Pix); i += 4 {
		a := uint32(t.Pix[i+3])
		img.Pix[i] = uint8(uint32(t.Pix[i]) * a / 255)
		img.Pix[i+1] = uint8(uint32(t.Pix[i+1]) * a / 255)
		img.Pix[i+2] = uint8(uint32(t.Pix[i+2]) * a / 255)
		img.Pix[i+3] = uint8(a)
	}
	if r.premul != nil {
		r.premul[t] = img
	}
	return img
}

// cheapEligible reports whether a pane can skip the per-pixel evaluator:
// the program must be shortcut-safe and every input the shortcut ignores
// must be at its neutral value.
func (r *Renderer) cheapEligible(p *Pane, s *PaneState, m *Material, pt *PaneTransform) cheapPath {
	kind := r.materialCheap(p.Material)
	if kind == cheapNone {
		return cheapNone
	}
	if m.AlphaCompare != nil || m.Blend != nil {
		return cheapNone
	}
	if len(m.TexMaps) == 0 {
		return cheapNone
	}
	if m.Swaps[0] != identitySwap || m.Swaps[1] != identitySwap ||
		m.Swaps[2] != identitySwap || m.Swaps[3] != identitySwap {
		// Conservative: stage swap selectors may reference any entry.
		return cheapNone
	}
	if s.UVAnimated || !m.TexMaps[0].UV.identity() {
		return cheapNone
	}
	if s.MatAnimated && len(m.Stages) == 0 {
		// The implicit default program reads the seed registers, which a
		// material-color animation changes per frame.
		return cheapNone
	}
	if kind == cheapModulate {
		// Modulate degenerates to a plain blit only under a white raster.
		for _, c := range s.VertexColors {
			if c != White {
				return cheapNone
			}
		}
		if pt.Alpha < 1 {
			return cheapNone
		}
	}
	return kind
}

// drawPane rasterizes one picture or window pane under the full transform
// (view already applied).
func (r *Renderer) drawPane(dst *image.RGBA, idx int, full Affine) {
	p := &r.layout.Panes[idx]
	s := &r.states[idx]
	pt := &r.transforms[idx]
	m := &r.layout.Materials[p.Material]

	w, h := s.Size.X, s.Size.Y
	if w <= 0 || h <= 0 {
		return
	}

	var texs []*Texture
	if len(m.TexMaps) > 0 {
		texs = make([]*Texture, len(m.TexMaps))
		for i := range m.TexMaps {
			texs[i] = r.paneTexture(s, m, i)
		}
		if texs[0] == nil {
			return // missing texture renders nothing
		}
	}

	if kind := r.cheapEligible(p, s, m, pt); kind != cheapNone {
		r.blitCheap(dst, texs[0], full, w, h)
		r.stats.cheapHits++
		r.stats.drawn++
		return
	}

	r.rasterizePane(dst, s, m, texs, pt.Alpha, full, w, h)
	r.stats.drawn++
}

// blitCheap draws the texture across the pane quad with a single affine
// transform instead of running the combiner per pixel.
func (r *Renderer) blitCheap(dst *image.RGBA, tex *Texture, full Affine, w, h float32) {
	src := r.premulImage(tex)
	// Map source pixels to destination: scale the texture onto the quad,
	// recenter, then apply the accumulated transform.
	local := mulAffine(Affine{1, 0, 0, 1, -w / 2, -h / 2},
		Affine{w / float32(tex.W), 0, 0, h / float32(tex.H), 0, 0})
	a := mulAffine(full, local)
	xdraw.ApproxBiLinear.Transform(dst, f64.Aff3{
		float64(a[0]), float64(a[2]), float64(a[4]),
		float64(a[1]), float64(a[3]), float64(a[5]),
	}, src, src.Bounds(), xdraw.Over, nil)
}

// rasterizePane is the full per-pixel path: inverse-transform every covered
// destination pixel into quad space, build the raster color, sample every
// texture map, evaluate the combiner and alpha test, then blend.
func (r *Renderer) rasterizePane(dst *image.RGBA, s *PaneState, m *Material, texs []*Texture, alpha float32, full Affine, w, h float32) {
	minX, minY, maxX, maxY := quadBounds(full, w, h)
	b := dst.Bounds()
	if minX < b.Min.X {
		minX = b.Min.X
	}
	if minY < b.Min.Y {
		minY = b.Min.Y
	}
	if maxX > b.Max.X {
		maxX = b.Max.X
	}
	if maxY > b.Max.Y {
		maxY = b.Max.Y
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	inv := invertAffine(full)
	samples := make([]RGBA, len(texs))
	stages := m.Stages

	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			lx, ly := transformPoint(inv, float32(px)+0.5, float32(py)+0.5)
			u := lx/w + 0.5
			v := ly/h + 0.5
			if u < 0 || u > 1 || v < 0 || v > 1 {
				continue
			}

			top := lerpColor(s.VertexColors[0], s.VertexColors[1], u)
			bot := lerpColor(s.VertexColors[2], s.VertexColors[3], u)
			ras := lerpColor(top, bot, v)
			ras.A *= alpha

			for i, tex := range texs {
				if tex == nil {
					samples[i] = TransparentBlack
					continue
				}
				su, sv := u, v
				if s.UV != nil {
					su, sv = applyUV(s.UV[i], u, v)
				} else {
					su, sv = applyUV(m.TexMaps[i].UV, u, v)
				}
				samples[i] = tex.Sample(su, sv, m.TexMaps[i].WrapS, m.TexMaps[i].WrapT)
			}

			out := EvaluateTev(stages, s.MatColors, m.KColors, m.Swaps, samples, ras)
			if !EvalAlphaCompare(m.AlphaCompare, u8(out.A)) {
				continue
			}
			blendPixel(dst, px, py, out, m.Blend)
		}
	}
}

// quadBounds returns the integer destination bounding box of the transformed
// quad.
func quadBounds(full Affine, w, h float32) (minX, minY, maxX, maxY int) {
	corners := [4][2]float32{
		{-w / 2, -h / 2}, {w / 2, -h / 2},
		{-w / 2, h / 2}, {w / 2, h / 2},
	}
	first := true
	var x0, y0, x1, y1 float32
	for _, c := range corners {
		x, y := transformPoint(full, c[0], c[1])
		if first {
			x0, y0, x1, y1 = x, y, x, y
			first = false
			continue
		}
		if x < x0 {
			x0 = x
		}
		if y < y0 {
			y0 = y
		}
		if x > x1 {
			x1 = x
		}
		if y > y1 {
			y1 = y
		}
	}
	return int(x0), int(y0), int(x1) + 1, int(y1) + 1
}

// blendPixel composites one combiner output into the destination surface
// (premultiplied RGBA). A nil descriptor is standard source-over; otherwise
// the blend runs in straight-alpha space like the framebuffer does.
func blendPixel(dst *image.RGBA, px, py int, src RGBA, desc *BlendDesc) {
	i := dst.PixOffset(px, py)
	pix := dst.Pix[i : i+4 : i+4]

	if desc == nil {
		sa := clamp01(src.A)
		inv := 1 - sa
		pix[0] = u8(src.R*sa + float32(pix[0])/255*inv)
		pix[1] = u8(src.G*sa + float32(pix[1])/255*inv)
		pix[2] = u8(src.B*sa + float32(pix[2])/255*inv)
		pix[3] = u8(sa + float32(pix[3])/255*inv)
		return
	}

	da := float32(pix[3]) / 255
	var dc RGBA
	if da > 0 {
		dc = RGBA{float32(pix[0]) / 255 / da, float32(pix[1]) / 255 / da, float32(pix[2]) / 255 / da, da}
	}

	sf := blendFactor(desc.Src, src, dc)
	df := blendFactor(desc.Dst, src, dc)
	outR := clamp01(src.R*sf[0] + dc.R*df[0])
	outG := clamp01(src.G*sf[1] + dc.G*df[1])
	outB := clamp01(src.B*sf[2] + dc.B*df[2])
	outA := clamp01(src.A*sf[3] + dc.A*df[3])

	pix[0] = u8(outR * outA)
	pix[1] = u8(outG * outA)
	pix[2] = u8(outB * outA)
	pix[3] = u8(outA)
}

// blendFactor evaluates a blend coefficient per channel (RGB plus the
// alpha-channel coefficient, where the color factors fall back to their
// alpha counterparts).
func blendFactor(f BlendFactor, src, dst RGBA) [4]float32 {
	switch f {
	case FactorZero:
		return [4]float32{0, 0, 0, 0}
	case FactorOne:
		return [4]float32{1, 1, 1, 1}
	case FactorSrcColor:
		return [4]float32{src.R, src.G, src.B, src.A}
	case FactorInvSrcColor:
		return [4]float32{1 - src.R, 1 - src.G, 1 - src.B, 1 - src.A}
	case FactorSrcAlpha:
		return [4]float32{src.A, src.A, src.A, src.A}
	case FactorInvSrcAlpha:
		a := 1 - src.A
		return [4]float32{a, a, a, a}
	case FactorDstAlpha:
		return [4]float32{dst.A, dst.A, dst.A, dst.A}
	case FactorInvDstAlpha:
		a := 1 - dst.A
		return [4]float32{a, a, a, a}
	default:
		return [4]float32{1, 1, 1, 1}
	}
}

package banner

// Per-pixel emulation of the fixed-function texture-environment combiner.
// All arithmetic is float32 on a [0, 1] channel scale; intermediates are
// kept unclamped in the hardware's working range unless a stage requests
// clamping. Register granularity, compare semantics and konstant selection
// follow the stage-configuration layout the source format emits; selector
// values it never emits degrade to harmless constants instead of being
// modeled bit-exactly.

// The unclamped working range of an intermediate register: the hardware's
// [-1024, 1023] on the 0..255 channel scale.
const (
	tevMin = -1024.0 / 255.0
	tevMax = 1023.0 / 255.0
)

func clampRange(v float32) float32 {
	if v < tevMin {
		return tevMin
	}
	if v > tevMax {
		return tevMax
	}
	return v
}

// tevRegs is the combiner register file: PREV plus the three general
// registers, color and alpha halves together.
type tevRegs [4]RGBA

// seedRegs initializes the register file from the material's three named
// color slots. The hardware does not preload PREV; it starts at zero.
func seedRegs(colors [3]RGBA) tevRegs {
	return tevRegs{TransparentBlack, colors[0], colors[1], colors[2]}
}

// konstFrac maps selector values 0..7 to the fixed fractions 1, 7/8 … 1/8.
func konstFrac(sel KSel) (float32, bool) {
	if sel <= KSel1_8 {
		return float32(8-int(sel)) / 8, true
	}
	return 1, false
}

// konstColor resolves a stage's constant-color selector against the
// material's KColor slots.
func konstColor(sel KSel, k [4]RGBA) RGBA {
	if f, ok := konstFrac(sel); ok {
		return RGBA{f, f, f, f}
	}
	if sel >= KSelK0 && sel <= KSelK3 {
		return k[sel-KSelK0]
	}
	if sel >= KSelK0R && sel <= KSelK3A {
		i := int(sel - KSelK0R)
		v := k[i%4].Channel(i / 4)
		return RGBA{v, v, v, v}
	}
	return White // unused selector value, degrade to 1
}

// konstAlpha resolves a stage's constant-alpha selector.
func konstAlpha(sel KSel, k [4]RGBA) float32 {
	if f, ok := konstFrac(sel); ok {
		return f
	}
	if sel >= KSelK0R && sel <= KSelK3A {
		i := int(sel - KSelK0R)
		return k[i%4].Channel(i / 4)
	}
	return 1
}

// colorInput resolves one of the 16 color-combiner input selectors.
func colorInput(arg ColorArg, regs *tevRegs, tex, ras, konst RGBA) RGBA {
	switch arg {
	case CAPrev:
		return regs[0]
	case CAPrevAlpha:
		a := regs[0].A
		return RGBA{a, a, a, a}
	case CAColor0:
		return regs[1]
	case CAAlpha0:
		a := regs[1].A
		return RGBA{a, a, a, a}
	case CAColor1:
		return regs[2]
	case CAAlpha1:
		a := regs[2].A
		return RGBA{a, a, a, a}
	case CAColor2:
		return regs[3]
	case CAAlpha2:
		a := regs[3].A
		return RGBA{a, a, a, a}
	case CATexColor:
		return tex
	case CATexAlpha:
		a := tex.A
		return RGBA{a, a, a, a}
	case CARasColor:
		return ras
	case CARasAlpha:
		a := ras.A
		return RGBA{a, a, a, a}
	case CAOne:
		return White
	case CAHalf:
		return RGBA{0.5, 0.5, 0.5, 0.5}
	case CAKonst:
		return konst
	default:
		return TransparentBlack
	}
}

// alphaInput resolves one of the 8 alpha-combiner input selectors.
func alphaInput(arg AlphaArg, regs *tevRegs, tex, ras RGBA, konst float32) float32 {
	switch arg {
	case AAPrev:
		return regs[0].A
	case AAAlpha0:
		return regs[1].A
	case AAAlpha1:
		return regs[2].A
	case AAAlpha2:
		return regs[3].A
	case AATex:
		return tex.A
	case AARas:
		return ras.A
	case AAKonst:
		return konst
	default:
		return 0
	}
}

func biasValue(b TevBias) float32 {
	switch b {
	case BiasAddHalf:
		return 0.5
	case BiasSubHalf:
		return -0.5
	}
	return 0
}

func scaleValue(s TevScale) float32 {
	switch s {
	case Scale2:
		return 2
	case Scale4:
		return 4
	case ScaleHalf:
		return 0.5
	}
	return 1
}

// q8 quantizes a channel to its 8-bit value for compare-mode equality and
// packing.
func q8(v float32) int {
	return int(clamp01(v)*255 + 0.5)
}

// compareCondition evaluates a compare-mode stage's condition at the
// granularity selected by the scale field. The per-component granularity
// returns one boolean per channel; the packed ones broadcast a single
// result.
func compareCondition(a, b RGBA, op TevOp, scale TevScale) [3]bool {
	greater := op == OpAdd
	single := func(av, bv int) bool {
		if greater {
			return av > bv
		}
		return av == bv
	}
	switch scale {
	case Scale1: // single 8-bit channel (R)
		c := single(q8(a.R), q8(b.R))
		return [3]bool{c, c, c}
	case Scale2: // 16-bit packed GR
		c := single(q8(a.R)+q8(a.G)<<8, q8(b.R)+q8(b.G)<<8)
		return [3]bool{c, c, c}
	case Scale4: // 24-bit packed BGR
		c := single(q8(a.R)+q8(a.G)<<8+q8(a.B)<<16, q8(b.R)+q8(b.G)<<8+q8(b.B)<<16)
		return [3]bool{c, c, c}
	default: // per-component 8-bit
		return [3]bool{
			single(q8(a.R), q8(b.R)),
			single(q8(a.G), q8(b.G)),
			single(q8(a.B), q8(b.B)),
		}
	}
}

// EvaluateTev runs the stage program over one pixel's inputs and returns the
// final RGBA: the PREV register clamped to [0, 1] regardless of the last
// stage's own clamp flag. textureSamples is indexed by the stages' texture
// map selectors; missing entries read as transparent black. An empty stage
// list evaluates the implicit default program.
func EvaluateTev(stages []TevStage, colors [3]RGBA, kColors [4]RGBA, swaps [4]SwapEntry, textureSamples []RGBA, raster RGBA) RGBA {
	if len(stages) == 0 {
		stages = defaultTevStages
	}
	regs := seedRegs(colors)

	for si := range stages {
		st := &stages[si]

		var tex RGBA
		if st.TexMap >= 0 && int(st.TexMap) < len(textureSamples) {
			tex = swaps[st.TexSwap&3].apply(textureSamples[st.TexMap])
		}

		ras := TransparentBlack
		if st.Ras != RasNone {
			ras = swaps[st.RasSwap&3].apply(raster)
		}

		kc := konstColor(st.KColor, kColors)
		ka := konstAlpha(st.KAlpha, kColors)

		// Color half.
		a := colorInput(st.ColorA, &regs, tex, ras, kc)
		b := colorInput(st.ColorB, &regs, tex, ras, kc)
		c := colorInput(st.ColorC, &regs, tex, ras, kc)
		d := colorInput(st.ColorD, &regs, tex, ras, kc)

		var outR, outG, outB float32
		if st.ColorBias == BiasCompare {
			cond := compareCondition(a, b, st.ColorOp, st.ColorScale)
			outR, outG, outB = d.R, d.G, d.B
			if cond[0] {
				outR += c.R
			}
			if cond[1] {
				outG += c.G
			}
			if cond[2] {
				outB += c.B
			}
		} else {
			bias := biasValue(st.ColorBias)
			scale := scaleValue(st.ColorScale)
			lr := (1-c.R)*a.R + c.R*b.R
			lg := (1-c.G)*a.G + c.G*b.G
			lb := (1-c.B)*a.B + c.B*b.B
			if st.ColorOp == OpSub {
				lr, lg, lb = -lr, -lg, -lb
			}
			outR = (d.R + lr + bias) * scale
			outG = (d.G + lg + bias) * scale
			outB = (d.B + lb + bias) * scale
		}
		if st.ColorClamp {
			outR, outG, outB = clamp01(outR), clamp01(outG), clamp01(outB)
		} else {
			outR, outG, outB = clampRange(outR), clampRange(outG), clampRange(outB)
		}

		// Alpha half. The single-channel compare uses >= for "greater" to
		// match observed hardware behavior on 1-bit-alpha textures.
		aa := alphaInput(st.AlphaA, &regs, tex, ras, ka)
		ab := alphaInput(st.AlphaB, &regs, tex, ras, ka)
		ac := alphaInput(st.AlphaC, &regs, tex, ras, ka)
		ad := alphaInput(st.AlphaD, &regs, tex, ras, ka)

		var outA float32
		if st.AlphaBias == BiasCompare {
			var cond bool
			if st.AlphaOp == OpAdd {
				cond = q8(aa) >= q8(ab)
			} else {
				cond = q8(aa) == q8(ab)
			}
			outA = ad
			if cond {
				outA += ac
			}
		} else {
			la := (1-ac)*aa + ac*ab
			if st.AlphaOp == OpSub {
				la = -la
			}
			outA = (ad + la + biasValue(st.AlphaBias)) * scaleValue(st.AlphaScale)
		}
		if st.AlphaClamp {
			outA = clamp01(outA)
		} else {
			outA = clampRange(outA)
		}

		cr := st.ColorReg & 3
		ar := st.AlphaReg & 3
		regs[cr].R, regs[cr].G, regs[cr].B = outR, outG, outB
		regs[ar].A = outA
	}

	return clamp01c(regs[0])
}

// EvalAlphaCompare evaluates the alpha-test descriptor against an 8-bit
// alpha value. A nil descriptor always passes.
func EvalAlphaCompare(d *AlphaCompare, alpha uint8) bool {
	if d == nil {
		return true
	}
	c0 := alphaCond(d.Comp0, alpha, d.Ref0)
	c1 := alphaCond(d.Comp1, alpha, d.Ref1)
	switch d.Logic {
	case LogicOr:
		return c0 || c1
	case LogicXor:
		return c0 != c1
	case LogicXnor:
		return c0 == c1
	default:
		return c0 && c1
	}
}

func alphaCond(c AlphaComp, a, ref uint8) bool {
	switch c {
	case CompNever:
		return false
	case CompLess:
		return a < ref
	case CompEqual:
		return a == ref
	case CompLEqual:
		return a <= ref
	case CompGreater:
		return a > ref
	case CompNotEqual:
		return a != ref
	case CompGEqual:
		return a >= ref
	default:
		return true
	}
}

// defaultTevStages is the implicit program a material with no stages runs:
// stage 0 modulates the texture with the constant color pair (register 0 for
// color, register 1 for alpha), stage 1 modulates the result with the raster
// color. Kept as an explicit table rather than a conditional at call sites.
var defaultTevStages = []TevStage{
	{
		TexMap: 0,
		Ras:    RasNone,
		ColorA: CAZero, ColorB: CATexColor, ColorC: CAColor0, ColorD: CAZero,
		ColorClamp: true, ColorReg: RegPrev,
		AlphaA: AAZero, AlphaB: AATex, AlphaC: AAAlpha1, AlphaD: AAZero,
		AlphaClamp: true, AlphaReg: RegPrev,
	},
	{
		TexMap: -1,
		Ras:    RasColor0,
		ColorA: CAZero, ColorB: CAPrev, ColorC: CARasColor, ColorD: CAZero,
		ColorClamp: true, ColorReg: RegPrev,
		AlphaA: AAZero, AlphaB: AAPrev, AlphaC: AARas, AlphaD: AAZero,
		AlphaClamp: true, AlphaReg: RegPrev,
	},
}

// DefaultStages returns a copy of the implicit default stage program.
func DefaultStages() []TevStage {
	out := make([]TevStage, len(defaultTevStages))
	copy(out, defaultTevStages)
	return out
}

// cheapPath classifies a stage program the renderer may shortcut without
// running the per-pixel evaluator.
type cheapPath uint8

const (
	cheapNone        cheapPath = iota
	cheapPassthrough           // single stage outputting the texture unchanged
	cheapModulate              // single stage computing texture × raster
)

// plainCombine reports whether both halves of a stage use the plain
// add/zero-bias/×1 formula into PREV.
func plainCombine(st *TevStage) bool {
	return st.ColorOp == OpAdd && st.ColorBias == BiasZero && st.ColorScale == Scale1 &&
		st.AlphaOp == OpAdd && st.AlphaBias == BiasZero && st.AlphaScale == Scale1 &&
		st.ColorReg == RegPrev && st.AlphaReg == RegPrev
}

// classifyStages detects the two shortcut-safe stage programs. Both
// canonical encodings of "texture unchanged" are recognized: d=TEX with the
// lerp zeroed, and a=TEX with c=ZERO.
func classifyStages(stages []TevStage) cheapPath {
	if len(stages) != 1 {
		return cheapNone
	}
	st := &stages[0]
	if st.TexMap != 0 || !plainCombine(st) {
		return cheapNone
	}

	passC := (st.ColorD == CATexColor && st.ColorA == CAZero && st.ColorB == CAZero && st.ColorC == CAZero) ||
		(st.ColorA == CATexColor && st.ColorC == CAZero && st.ColorD == CAZero)
	passA := (st.AlphaD == AATex && st.AlphaA == AAZero && st.AlphaB == AAZero && st.AlphaC == AAZero) ||
		(st.AlphaA == AATex && st.AlphaC == AAZero && st.AlphaD == AAZero)
	if passC && passA {
		return cheapPassthrough
	}

	modC := st.ColorA == CAZero && st.ColorB == CATexColor && st.ColorC == CARasColor && st.ColorD == CAZero
	modA := st.AlphaA == AAZero && st.AlphaB == AATex && st.AlphaC == AARas && st.AlphaD == AAZero
	if modC && modA && st.Ras != RasNone {
		return cheapModulate
	}
	return cheapNone
}

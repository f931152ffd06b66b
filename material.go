package banner

// Material mirrors the format's material block: the three color registers
// that seed the combiner, up to four constant colors, texture bindings, the
// TEV stage program, and the optional alpha-compare and blend descriptors.
type Material struct {
	Name string

	// Colors seed the TEV color/alpha registers C0, C1 and C2. PREV is never
	// preloaded by the hardware.
	Colors [3]RGBA

	// KColors are the four constant ("konstant") color slots selectable per
	// stage.
	KColors [4]RGBA

	TexMaps []TexMap
	Stages  []TevStage // empty means the implicit default program

	AlphaCompare *AlphaCompare
	Blend        *BlendDesc

	// Swaps is the channel swap table. Every stage names one entry for its
	// texture input and one for its raster input.
	Swaps [4]SwapEntry
}

// Wrap selects texture coordinate wrapping.
type Wrap uint8

const (
	WrapClamp Wrap = iota
	WrapRepeat
	WrapMirror
)

// UVTransform is the texture-coordinate SRT applied about the UV-space
// center, in the format's order: scale, then rotate (degrees), then
// translate.
type UVTransform struct {
	Translate Vec2
	Rotate    float32
	Scale     Vec2
}

// identityUV is the no-op texture-coordinate transform.
var identityUV = UVTransform{Scale: Vec2{1, 1}}

func (t UVTransform) identity() bool {
	return t == identityUV
}

// TexMap binds one texture-table entry to a material texture slot.
type TexMap struct {
	Texture      int // index into Layout.Textures
	WrapS, WrapT Wrap
	UV           UVTransform
}

// ColorArg selects a TEV color-combiner input. The ordering matches the
// hardware's 16-way selector, including the alpha-of-register broadcasts.
type ColorArg uint8

const (
	CAPrev ColorArg = iota // PREV.rgb
	CAPrevAlpha            // PREV.a broadcast
	CAColor0               // C0.rgb
	CAAlpha0               // C0.a broadcast
	CAColor1
	CAAlpha1
	CAColor2
	CAAlpha2
	CATexColor // swapped texture sample rgb
	CATexAlpha // swapped texture sample alpha broadcast
	CARasColor // raster color rgb
	CARasAlpha // raster alpha broadcast
	CAOne
	CAHalf
	CAKonst // stage's constant-color selection
	CAZero
)

// AlphaArg selects a TEV alpha-combiner input (8-way; no ONE/HALF and no
// register RGB access).
type AlphaArg uint8

const (
	AAPrev AlphaArg = iota
	AAAlpha0
	AAAlpha1
	AAAlpha2
	AATex
	AARas
	AAKonst
	AAZero
)

// TevOp is the combiner operation. With a compare bias the op selects the
// comparison operator instead (add→greater, sub→equal).
type TevOp uint8

const (
	OpAdd TevOp = iota
	OpSub
)

// TevBias offsets the combine result, or switches the stage into compare
// mode.
type TevBias uint8

const (
	BiasZero TevBias = iota
	BiasAddHalf
	BiasSubHalf
	BiasCompare
)

// TevScale multiplies the combine result. In compare mode it selects the
// comparison granularity instead (×1→R8, ×2→GR16, ×4→BGR24, ×½→per-component
// RGB8).
type TevScale uint8

const (
	Scale1 TevScale = iota
	Scale2
	Scale4
	ScaleHalf
)

// TevReg identifies a combiner destination register pair.
type TevReg uint8

const (
	RegPrev TevReg = iota
	Reg0
	Reg1
	Reg2
)

// KSel selects a stage's constant color or alpha: a fixed fraction
// (1, 7/8 … 1/8) or a component of one of the four KColor slots. Selector
// values the format never emits resolve to 1.
type KSel uint8

const (
	KSelOne KSel = iota // 8/8
	KSel7_8
	KSel3_4
	KSel5_8
	KSel1_2
	KSel3_8
	KSel1_4
	KSel1_8

	// 12..15: K0..K3 rgb (color) / broadcast of the slot's alpha is not
	// reachable here; alpha uses the component selectors below.
	KSelK0 KSel = 12
	KSelK1 KSel = 13
	KSelK2 KSel = 14
	KSelK3 KSel = 15

	// 16..31: single components, R of K0..K3, then G, B, A.
	KSelK0R KSel = 16
	KSelK1R KSel = 17
	KSelK2R KSel = 18
	KSelK3R KSel = 19
	KSelK0G KSel = 20
	KSelK1G KSel = 21
	KSelK2G KSel = 22
	KSelK3G KSel = 23
	KSelK0B KSel = 24
	KSelK1B KSel = 25
	KSelK2B KSel = 26
	KSelK3B KSel = 27
	KSelK0A KSel = 28
	KSelK1A KSel = 29
	KSelK2A KSel = 30
	KSelK3A KSel = 31
)

// RasSel selects a stage's raster-color input. The format only ever emits
// channel 0 or "none"; none substitutes transparent black.
type RasSel uint8

const (
	RasColor0 RasSel = 0
	RasNone   RasSel = 0xFF
)

// SwapEntry remaps the R/G/B/A channels of a texture or raster input before
// use. Each element names the source channel (0=R, 1=G, 2=B, 3=A).
type SwapEntry [4]uint8

// identitySwap leaves channels untouched.
var identitySwap = SwapEntry{0, 1, 2, 3}

// apply remaps c's channels through the swap entry.
func (s SwapEntry) apply(c RGBA) RGBA {
	if s == identitySwap {
		return c
	}
	return RGBA{c.Channel(int(s[0] & 3)), c.Channel(int(s[1] & 3)), c.Channel(int(s[2] & 3)), c.Channel(int(s[3] & 3))}
}

// TevStage is one step of the combiner program. Color and alpha halves run
// independently over the same inputs.
type TevStage struct {
	TexMap  int8 // material texture-map index, -1 = no texture input
	TexSwap uint8
	Ras     RasSel
	RasSwap uint8

	ColorA, ColorB, ColorC, ColorD ColorArg
	ColorOp                        TevOp
	ColorBias                      TevBias
	ColorScale                     TevScale
	ColorClamp                     bool
	ColorReg                       TevReg

	AlphaA, AlphaB, AlphaC, AlphaD AlphaArg
	AlphaOp                        TevOp
	AlphaBias                      TevBias
	AlphaScale                     TevScale
	AlphaClamp                     bool
	AlphaReg                       TevReg

	KColor KSel
	KAlpha KSel
}

// AlphaComp is an 8-bit alpha comparison condition.
type AlphaComp uint8

const (
	CompNever AlphaComp = iota
	CompLess
	CompEqual
	CompLEqual
	CompGreater
	CompNotEqual
	CompGEqual
	CompAlways
)

// AlphaLogic combines the two alpha-compare conditions.
type AlphaLogic uint8

const (
	LogicAnd AlphaLogic = iota
	LogicOr
	LogicXor
	LogicXnor
)

// AlphaCompare is the GPU alpha-test descriptor: two independent 8-bit
// conditions joined by a logic op. A pixel failing the test is discarded
// regardless of combiner output.
type AlphaCompare struct {
	Comp0, Comp1 AlphaComp
	Ref0, Ref1   uint8
	Logic        AlphaLogic
}

// BlendFactor is a framebuffer blend coefficient.
type BlendFactor uint8

const (
	FactorZero BlendFactor = iota
	FactorOne
	FactorSrcColor
	FactorInvSrcColor
	FactorSrcAlpha
	FactorInvSrcAlpha
	FactorDstAlpha
	FactorInvDstAlpha
)

// BlendDesc describes framebuffer blending. A nil descriptor means standard
// source-over (src alpha, inv src alpha). Logic-op blending is not modeled;
// descriptors requesting it degrade to source-over.
type BlendDesc struct {
	Src BlendFactor
	Dst BlendFactor
}

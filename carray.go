package lvimg

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/bodgit/lvimg/lvbin"
)

// Asset is one image extracted from C source: its declared metadata
// plus the raw bytes of its data array. The raw bytes are either a
// bare pixel payload or, for some producers, a complete container with
// the header already embedded.
type Asset struct {
	Name   string
	Width  int
	Height int
	Format lvbin.ColorFormat
	Data   []byte
}

var errUnsupportedSource = errors.New("lvimg: no image arrays found in source")

var (
	zmkArray      = regexp.MustCompile(`uint8_t\s+(\w+)_map\[\]\s*=\s*\{([^}]+)\}\s*;`)
	zmkDescriptor = regexp.MustCompile(`const\s+lv_img_dsc_t\s+(\w+)_icon\s*=\s*\{([^}]+)\}`)

	descWidth  = regexp.MustCompile(`\.w\s*=\s*(\d+)`)
	descHeight = regexp.MustCompile(`\.h\s*=\s*(\d+)`)
	descFormat = regexp.MustCompile(`\.cf\s*=\s*(\w+)`)
	descData   = regexp.MustCompile(`\.data\s*=\s*(\w+)`)

	imgName         = regexp.MustCompile(`const lv_img_dsc_t (\w+)\s*=\s*\{`)
	imgHeaderFormat = regexp.MustCompile(`\.header\.cf\s*=\s*(\w+)`)
	imgHeaderWidth  = regexp.MustCompile(`\.header\.w\s*=\s*(\d+)`)
	imgHeaderHeight = regexp.MustCompile(`\.header\.h\s*=\s*(\d+)`)

	swapBlock = regexp.MustCompile(`(?s)#if LV_COLOR_DEPTH == 16 && LV_COLOR_16_SWAP != 0(.+?)#endif`)
	braces    = regexp.MustCompile(`(?s)\{(.+?)\};`)
	hexByte   = regexp.MustCompile(`0x([0-9a-fA-F]{1,2})`)
)

func hexBytes(s string) []byte {
	var b []byte
	for _, m := range hexByte.FindAllStringSubmatch(s, -1) {
		v, _ := strconv.ParseUint(m[1], 16, 8)
		b = append(b, byte(v))
	}
	return b
}

// extractModifierIcons handles sources defining several icons per file
// as <name>_map arrays paired with <name>_icon descriptors.
func extractModifierIcons(src string) []Asset {
	arrays := make(map[string][]byte)
	for _, m := range zmkArray.FindAllStringSubmatch(src, -1) {
		if b := hexBytes(m[2]); len(b) > 0 {
			arrays[m[1]] = b
		}
	}

	var assets []Asset
	for _, m := range zmkDescriptor.FindAllStringSubmatch(src, -1) {
		name, desc := m[1], m[2]

		w := descWidth.FindStringSubmatch(desc)
		h := descHeight.FindStringSubmatch(desc)
		cf := descFormat.FindStringSubmatch(desc)
		data := descData.FindStringSubmatch(desc)
		if w == nil || h == nil || cf == nil || data == nil {
			continue
		}

		array := strings.TrimSuffix(strings.TrimSuffix(data[1], "_map"), "_icon")
		b, ok := arrays[array]
		if !ok {
			continue
		}

		f, ok := lvbin.ParseFormat(cf[1])
		if !ok {
			continue
		}

		width, _ := strconv.Atoi(w[1])
		height, _ := strconv.Atoi(h[1])

		assets = append(assets, Asset{
			Name:   name,
			Width:  width,
			Height: height,
			Format: f,
			Data:   b,
		})
	}

	return assets
}

// extractDescriptor handles the classic single-image file emitted by
// the LVGL image converter: one lv_img_dsc_t with .header fields and a
// data array, preferring the byte-swapped 16-bit color block when the
// file carries per-depth variants.
func extractDescriptor(src string) (*Asset, error) {
	name := imgName.FindStringSubmatch(src)
	cf := imgHeaderFormat.FindStringSubmatch(src)
	w := imgHeaderWidth.FindStringSubmatch(src)
	h := imgHeaderHeight.FindStringSubmatch(src)
	if name == nil || cf == nil || w == nil || h == nil {
		return nil, errUnsupportedSource
	}

	f, ok := lvbin.ParseFormat(cf[1])
	if !ok {
		return nil, errors.New("lvimg: color format " + cf[1] + " not supported")
	}

	block := swapBlock.FindStringSubmatch(src)
	if block == nil {
		block = braces.FindStringSubmatch(src)
	}
	if block == nil {
		return nil, errUnsupportedSource
	}

	data := hexBytes(block[1])
	if len(data) == 0 {
		return nil, errUnsupportedSource
	}

	width, _ := strconv.Atoi(w[1])
	height, _ := strconv.Atoi(h[1])

	return &Asset{
		Name:   name[1],
		Width:  width,
		Height: height,
		Format: f,
		Data:   data,
	}, nil
}

// Extract returns every image asset declared in the C source b.
func Extract(b []byte) ([]Asset, error) {
	src := string(b)

	if assets := extractModifierIcons(src); len(assets) > 0 {
		return assets, nil
	}

	a, err := extractDescriptor(src)
	if err != nil {
		return nil, err
	}
	return []Asset{*a}, nil
}

// embedded reports whether the asset's raw bytes already form a
// complete container: they begin with a header whose format is known
// and whose dimensions account for the remaining payload.
func (a *Asset) embedded() bool {
	h, payload, err := lvbin.Split(a.Data)
	if err != nil {
		return false
	}
	return h.Format.Known() && h.Width > 0 && h.Height > 0 &&
		lvbin.ValidSize(h.Format, h.Width, h.Height, len(payload))
}

// Container returns the binary container for the asset. A header
// embedded in the raw bytes is authoritative; the declared metadata is
// only used when the bytes are payload-only.
func (a *Asset) Container() ([]byte, error) {
	if a.embedded() {
		return append([]byte(nil), a.Data...), nil
	}

	return lvbin.Join(lvbin.Header{
		Format: a.Format,
		Width:  a.Width,
		Height: a.Height,
	}, a.Data)
}

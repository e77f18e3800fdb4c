package lvimg_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/bodgit/lvimg"
	"github.com/bodgit/lvimg/lvbin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cmdHeader = []byte{0x07, 0x38, 0xc0, 0x01}

	cmdPayload = []byte{
		0xff, 0xff, 0xff, 0xff,
		0x00, 0x00, 0x00, 0xff,
		0x00, 0x00,
		0x00, 0x00,
		0x18, 0x60,
		0x24, 0x90,
		0x24, 0x90,
		0x1f, 0xe0,
		0x04, 0x80,
		0x04, 0x80,
		0x1f, 0xe0,
		0x24, 0x90,
		0x24, 0x90,
		0x18, 0x60,
		0x00, 0x00,
		0x00, 0x00,
	}
)

func cmdContainer() []byte {
	return append(append([]byte(nil), cmdHeader...), cmdPayload...)
}

func cSource(b []byte) string {
	buf := new(bytes.Buffer)
	for i, v := range b {
		if i > 0 && i%12 == 0 {
			buf.WriteString("\n  ")
		}
		fmt.Fprintf(buf, "0x%02x, ", v)
	}
	return buf.String()
}

func classicSource(name string, b []byte) []byte {
	return []byte(fmt.Sprintf(`#include "lvgl/lvgl.h"

const LV_ATTRIBUTE_MEM_ALIGN uint8_t %s_data[] = {
  %s
};

const lv_img_dsc_t %s = {
  .header.always_zero = 0,
  .header.w = 14,
  .header.h = 14,
  .data_size = %d,
  .header.cf = LV_IMG_CF_INDEXED_1BIT,
  .data = %s_data,
};
`, name, cSource(b), name, len(b), name))
}

func TestExtractDescriptor(t *testing.T) {
	assets, err := lvimg.Extract(classicSource("cmd", cmdPayload))
	require.NoError(t, err)
	require.Len(t, assets, 1)

	a := assets[0]
	assert.Equal(t, "cmd", a.Name)
	assert.Equal(t, 14, a.Width)
	assert.Equal(t, 14, a.Height)
	assert.Equal(t, lvbin.FormatIndexed1, a.Format)
	assert.Equal(t, cmdPayload, a.Data)
}

func TestExtractDescriptorSwapBlock(t *testing.T) {
	src := []byte(`#include "lvgl/lvgl.h"

const LV_ATTRIBUTE_MEM_ALIGN uint8_t dot_data[] = {
#if LV_COLOR_DEPTH == 16 && LV_COLOR_16_SWAP == 0
  0x00, 0xf8,
#endif
#if LV_COLOR_DEPTH == 16 && LV_COLOR_16_SWAP != 0
  0xf8, 0x00,
#endif
};

const lv_img_dsc_t dot = {
  .header.cf = LV_IMG_CF_TRUE_COLOR,
  .header.w = 1,
  .header.h = 1,
  .data = dot_data,
};
`)

	assets, err := lvimg.Extract(src)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	assert.Equal(t, lvbin.FormatRGB565, assets[0].Format)
	assert.Equal(t, []byte{0xf8, 0x00}, assets[0].Data)
}

func TestExtractModifierIcons(t *testing.T) {
	src := []byte(fmt.Sprintf(`#include <lvgl.h>

static const uint8_t bluetooth_map[] = {
  %s
};

static const uint8_t battery_map[] = {
  0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0xff, 0xc0, 0x40,
};

const lv_img_dsc_t bluetooth_icon = {
  .header.cf = LV_IMG_CF_INDEXED_1BIT,
  .header.always_zero = 0,
  .header.w = 14,
  .header.h = 14,
  .data_size = 36,
  .data = bluetooth_map,
};

const lv_img_dsc_t battery_icon = {
  .header.cf = LV_IMG_CF_INDEXED_1BIT,
  .header.always_zero = 0,
  .header.w = 2,
  .header.h = 2,
  .data_size = 10,
  .data = battery_map,
};
`, cSource(cmdPayload)))

	assets, err := lvimg.Extract(src)
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, "bluetooth", assets[0].Name)
	assert.Equal(t, 14, assets[0].Width)
	assert.Equal(t, cmdPayload, assets[0].Data)

	assert.Equal(t, "battery", assets[1].Name)
	assert.Equal(t, 2, assets[1].Width)
	assert.Equal(t, lvbin.FormatIndexed1, assets[1].Format)
	assert.Len(t, assets[1].Data, 10)
}

func TestExtractUnsupported(t *testing.T) {
	_, err := lvimg.Extract([]byte("int main(void) { return 0; }\n"))
	assert.Error(t, err)
}

func TestContainerDeclaredMetadata(t *testing.T) {
	a := lvimg.Asset{
		Name:   "cmd",
		Width:  14,
		Height: 14,
		Format: lvbin.FormatIndexed1,
		Data:   cmdPayload,
	}

	bin, err := a.Container()
	require.NoError(t, err)
	assert.Equal(t, cmdContainer(), bin)
}

func TestContainerEmbeddedHeaderWins(t *testing.T) {
	// Bytes that already form a container are passed through even when
	// the declared metadata disagrees.
	a := lvimg.Asset{
		Name:   "cmd",
		Width:  1,
		Height: 1,
		Format: lvbin.FormatRGB565,
		Data:   cmdContainer(),
	}

	bin, err := a.Container()
	require.NoError(t, err)
	assert.Equal(t, cmdContainer(), bin)
}

func TestContainerBadDeclaredWidth(t *testing.T) {
	a := lvimg.Asset{
		Name:   "cmd",
		Width:  512,
		Height: 14,
		Format: lvbin.FormatIndexed1,
		Data:   cmdPayload,
	}

	_, err := a.Container()
	assert.Error(t, err)
}

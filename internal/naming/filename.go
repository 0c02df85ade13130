package naming

import "strings"

// Filename fills a frame's file name template. "{unit}" is replaced by the
// unit name; an empty template gives "<id>_<unit>.png".
func Filename(template, frameID, unit string) string {
	if template == "" {
		return frameID + "_" + unit + ".png"
	}
	return strings.ReplaceAll(template, "{unit}", unit)
}

// MaskFilename is the mask-only quick export name.
func MaskFilename(unit string) string {
	return unit + "_mask.png"
}

// SheetFilename is the contact sheet name for a batch.
func SheetFilename(unit string) string {
	return unit + "_icons.pdf"
}

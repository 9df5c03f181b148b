package codec

import (
	"bytes"
	"strings"
)

const (
	categoryCount     = 16
	categoryNameLen   = 16
	categoryBlockSize = 2 + categoryCount*categoryNameLen + categoryCount + 2

	// UnfiledCategory is the name used for category 0 and for unresolved indexes.
	UnfiledCategory = "Unfiled"
)

// ParseCategories decodes the category names from a standard AppInfo block
// (renamed bitmap, sixteen 16-byte NUL-padded names, sixteen IDs, last
// unique ID, padding). Blocks shorter than the category section yield nil.
func ParseCategories(appInfo []byte) []string {
	if len(appInfo) < 2+categoryCount*categoryNameLen {
		return nil
	}

	names := make([]string, categoryCount)
	for i := 0; i < categoryCount; i++ {
		start := 2 + i*categoryNameLen
		name := appInfo[start : start+categoryNameLen]
		if idx := bytes.IndexByte(name, 0); idx >= 0 {
			name = name[:idx]
		}
		names[i] = string(name)
	}
	return names
}

// EncodeCategories builds an AppInfo category block holding names. Names
// longer than 15 bytes are truncated; category IDs equal their index.
func EncodeCategories(names []string) []byte {
	block := make([]byte, categoryBlockSize)
	for i := 0; i < categoryCount && i < len(names); i++ {
		name := names[i]
		if len(name) > categoryNameLen-1 {
			name = name[:categoryNameLen-1]
		}
		copy(block[2+i*categoryNameLen:], name)
		block[2+categoryCount*categoryNameLen+i] = byte(i)
	}
	block[2+categoryCount*categoryNameLen+categoryCount] = categoryCount - 1
	return block
}

// CategoryName resolves a device category index against names.
func CategoryName(names []string, index int) string {
	if index <= 0 || index >= len(names) || names[index] == "" {
		return UnfiledCategory
	}
	return names[index]
}

// CategoryIndex resolves a category name (case-insensitively) to its index.
// Unknown names resolve to 0 (Unfiled).
func CategoryIndex(names []string, name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0
	}
	for i, candidate := range names {
		if candidate != "" && strings.EqualFold(candidate, name) {
			return i
		}
	}
	return 0
}

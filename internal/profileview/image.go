package profileview

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// FallbackImage is shown when the profile image fails to load.
const FallbackImage = "https://sanjaybasket.s3.ap-south-1.amazonaws.com/image.webp"

// ImageURL resolves a profile image path against base, with a millisecond
// timestamp so a freshly uploaded image is never served from cache.
func ImageURL(base, profileImage string, now time.Time) string {
	base = strings.TrimRight(base, "/")
	profileImage = strings.TrimLeft(profileImage, "/")
	return base + "/" + profileImage + "?key=" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Image is the source of the rendered profile image.
type Image struct {
	mu      sync.Mutex
	src     string
	swapped bool
}

func NewImage(src string) *Image { return &Image{src: src} }

func (i *Image) Src() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.src
}

// Fail records a load failure. The first one swaps the source to
// FallbackImage and returns true; any later failure, including one for the
// fallback itself, is ignored.
func (i *Image) Fail() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.swapped {
		return false
	}
	i.swapped = true
	i.src = FallbackImage
	return true
}

package util

import (
	"fmt"
	"net/url"
)

const AvatarSize = 64

func Avatar(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/bottts/svg?seed=%v&size=%v", url.QueryEscape(seed), AvatarSize)
}

package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowTokenGuide writes step-by-step instructions for finding the NYT-S cookie
func ShowTokenGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)
	lines := []string{
		rule,
		"NYT-S TOKEN GUIDE",
		rule,
		"",
		"Solve times are tied to your NYT Games account, so the scraper needs",
		"the NYT-S session cookie of a logged-in subscriber.",
		"",
		"STEP 1: Open https://www.nytimes.com/crosswords and log in",
		"",
		"STEP 2: Open Developer Tools",
		"   • Chrome/Edge/Brave: F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)",
		"   • Firefox: F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)",
		"   • Safari: enable the Develop menu in Settings, then Cmd+Option+I",
		"",
		"STEP 3: Find the cookie",
		"   • Application tab (Chrome) or Storage tab (Firefox)",
		"   • Cookies → https://www.nytimes.com",
		"   • Copy the value of the NYT-S cookie",
		"",
		"TIPS:",
		"   • Copy only the value, without NYT-S= or a trailing semicolon",
		"   • The token expires when you log out of the browser session",
		"   • It can also be set through XWSCRAPER_TOKEN or NYT_COOKIE",
		"",
		"The token grants access to your NYT account. Never share it.",
		rule,
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// ShowQuickTokenGuide writes a one-line reminder for experienced users
func ShowQuickTokenGuide(w io.Writer) {
	fmt.Fprintln(w, "Token: F12 → Application/Storage → Cookies → nytimes.com → NYT-S")
	fmt.Fprintln(w, "   Type 'help' for detailed instructions")
}

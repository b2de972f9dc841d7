package transport

import (
	"fmt"
	"sync"

	random "github.com/mazen160/go-random"
)

var (
	platforms = []string{
		"Windows NT 10.0; Win64; x64",
		"Windows NT 10.0; WOW64",
		"Macintosh; Intel Mac OS X 10_15_7",
		"Macintosh; Intel Mac OS X 14_4",
		"X11; Linux x86_64",
		"X11; Ubuntu; Linux x86_64",
	}

	agentOnce sync.Once
	agent     string
)

// fallbackAgent is used when the system random source is unavailable.
const fallbackAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// BrowserUserAgent returns a realistic desktop browser User-Agent. It is
// generated on first use and stays the same for the life of the process.
func BrowserUserAgent() string {
	agentOnce.Do(func() {
		agent = generateUserAgent()
	})
	return agent
}

func generateUserAgent() string {
	platform, err := random.Choice(platforms)
	if err != nil {
		return fallbackAgent
	}
	family, err := random.Choice([]string{"chrome", "firefox", "edge"})
	if err != nil {
		return fallbackAgent
	}
	major, err := random.IntRange(118, 131)
	if err != nil {
		return fallbackAgent
	}

	switch family {
	case "firefox":
		return fmt.Sprintf("Mozilla/5.0 (%s; rv:%d.0) Gecko/20100101 Firefox/%d.0", platform, major, major)
	case "edge":
		return fmt.Sprintf("Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36 Edg/%d.0.0.0", platform, major, major)
	default:
		return fmt.Sprintf("Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36", platform, major)
	}
}

// RandomToken returns n lowercase ASCII letters.
func RandomToken(n int) (string, error) {
	return random.Random(n, "abcdefghijklmnopqrstuvwxyz", true)
}

// RandomInt returns an integer in [min, max].
func RandomInt(min, max int) (int, error) {
	return random.IntRange(min, max+1)
}

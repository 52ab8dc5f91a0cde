package tickets

import (
	"regexp"
	"strings"
)

var inviteHosts = []string{
	"discord.gg/",
	"discord.com/invite/",
	"discordapp.com/invite/",
}

var inviteCodeRegex = regexp.MustCompile(`^[A-Za-z0-9-]{2,32}$`)

// ParseInviteCode extracts the invite code from an invite link or a bare code
func ParseInviteCode(input string) (string, bool) {
	s := strings.TrimSpace(input)
	for _, scheme := range []string{"https://", "http://"} {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			s = s[len(scheme):]
			break
		}
	}
	s = strings.TrimPrefix(s, "www.")

	code := s
	for _, host := range inviteHosts {
		if len(s) > len(host) && strings.EqualFold(s[:len(host)], host) {
			code = s[len(host):]
			if i := strings.IndexAny(code, "/?#"); i >= 0 {
				code = code[:i]
			}
			break
		}
	}

	if !inviteCodeRegex.MatchString(code) {
		return "", false
	}
	return code, true
}

func InviteURL(code string) string {
	return "https://discord.gg/" + code
}

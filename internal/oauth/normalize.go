package oauth

// Identity is the canonical output of a social login: the normalized
// triple consumed by reconciliation and then discarded.
type Identity struct {
	Email       string
	DisplayName string
	Provider    string
}

// DefaultDisplayName is used when a provider grants email but not a
// profile name.
const DefaultDisplayName = "anonym"

// profilePaths maps each provider to the field paths where email and
// display name live in its raw payload. Extraction is table-driven so
// a new provider is a table row, not a new branch at every call site.
var profilePaths = map[string]struct {
	email []string
	name  []string
}{
	// kakao nests everything under kakao_account, the nickname one
	// level deeper under profile.
	ProviderKakao: {
		email: []string{"kakao_account", "email"},
		name:  []string{"kakao_account", "profile", "nickname"},
	},
	// google userinfo is flat.
	ProviderGoogle: {
		email: []string{"email"},
		name:  []string{"name"},
	},
	// naver wraps the record in a response object.
	ProviderNaver: {
		email: []string{"response", "email"},
		name:  []string{"response", "name"},
	},
}

// Normalize maps a raw provider payload to a canonical identity.
// A missing email path is a NormalizeError: either the provider
// changed its response shape or the user did not grant the email
// scope. A missing name falls back to DefaultDisplayName.
func Normalize(providerID string, raw map[string]any) (Identity, error) {
	paths, ok := profilePaths[providerID]
	if !ok {
		return Identity{}, &NormalizeError{Provider: providerID, MissingField: "provider mapping"}
	}

	email, ok := dig(raw, paths.email)
	if !ok || email == "" {
		return Identity{}, &NormalizeError{Provider: providerID, MissingField: join(paths.email)}
	}

	name, ok := dig(raw, paths.name)
	if !ok || name == "" {
		name = DefaultDisplayName
	}

	return Identity{Email: email, DisplayName: name, Provider: providerID}, nil
}

// dig walks a path of nested JSON objects and returns the string leaf.
func dig(m map[string]any, path []string) (string, bool) {
	cur := any(m)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = obj[key]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

func join(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}

package password

import (
	"strings"
	"testing"
)

var fast = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify(t *testing.T) {
	phc, err := Hash(fast, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash err: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$") {
		t.Fatalf("unexpected phc prefix: %q", phc)
	}
	if !Verify("correct horse battery staple", phc) {
		t.Fatal("right password rejected")
	}
	if Verify("wrong password", phc) {
		t.Fatal("wrong password accepted")
	}
}

func TestHash_UniqueSalt(t *testing.T) {
	a, err := Hash(fast, "same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash(fast, "same")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ (salt)")
	}
}

func TestVerify_Garbage(t *testing.T) {
	for _, phc := range []string{"", "$argon2id$", "not-a-hash", "$argon2i$v=19$m=8,t=1,p=1$AAAA$BBBB"} {
		if Verify("x", phc) {
			t.Fatalf("garbage phc %q verified", phc)
		}
	}
}

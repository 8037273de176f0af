package ipclassify

import (
	"sort"
	"testing"

	"github.com/domainguard/domainguard/internal/model"
)

func flagStrings(flags []model.IPFlag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		ips      []string
		public   []string
		internal []string
		flags    []string
	}{
		{
			name:     "private 10 and public",
			ips:      []string{"10.0.0.5", "8.8.8.8"},
			public:   []string{"8.8.8.8"},
			internal: []string{"10.0.0.5"},
			flags:    []string{"private_10"},
		},
		{
			name:     "localhost only",
			ips:      []string{"127.0.0.1"},
			public:   nil,
			internal: []string{"127.0.0.1"},
			flags:    []string{"localhost"},
		},
		{
			name:     "172.16 private",
			ips:      []string{"172.16.0.1"},
			internal: []string{"172.16.0.1"},
			flags:    []string{"private_172"},
		},
		{
			name:   "172.32 is public (outside range)",
			ips:    []string{"172.32.0.1"},
			public: []string{"172.32.0.1"},
		},
		{
			name:     "192.168 private",
			ips:      []string{"192.168.1.1"},
			internal: []string{"192.168.1.1"},
			flags:    []string{"private_192"},
		},
		{
			name:     "null route",
			ips:      []string{"0.0.0.0"},
			internal: []string{"0.0.0.0"},
			flags:    []string{"null_route"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.ips)
			if len(got.Public) != len(tt.public) {
				t.Fatalf("public = %v, want %v", got.Public, tt.public)
			}
			if len(got.Internal) != len(tt.internal) {
				t.Fatalf("internal = %v, want %v", got.Internal, tt.internal)
			}
			gotFlags := flagStrings(got.Flags)
			wantFlags := append([]string{}, tt.flags...)
			sort.Strings(wantFlags)
			if len(gotFlags) != len(wantFlags) {
				t.Fatalf("flags = %v, want %v", gotFlags, wantFlags)
			}
			for i := range gotFlags {
				if gotFlags[i] != wantFlags[i] {
					t.Fatalf("flags = %v, want %v", gotFlags, wantFlags)
				}
			}
		})
	}
}

func TestClassify172Range(t *testing.T) {
	for n := 16; n <= 31; n++ {
		ip := "172." + itoa(n) + ".0.1"
		got := Classify([]string{ip})
		if len(got.Internal) != 1 {
			t.Errorf("172.%d should be private", n)
		}
	}
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

package config

import "testing"

func TestUseRemoteStore(t *testing.T) {
	tests := []struct {
		name string
		env  EnviornmentVariable
		want bool
	}{
		{
			name: "all settings present",
			env:  EnviornmentVariable{DB_HOST: "db.internal", DB_USER_NAME: "academy", DB_NAME: "academy"},
			want: true,
		},
		{
			name: "missing host",
			env:  EnviornmentVariable{DB_USER_NAME: "academy", DB_NAME: "academy"},
			want: false,
		},
		{
			name: "placeholder host from env example",
			env:  EnviornmentVariable{DB_HOST: "your-database-host", DB_USER_NAME: "academy", DB_NAME: "academy"},
			want: false,
		},
		{
			name: "placeholder user",
			env:  EnviornmentVariable{DB_HOST: "db.internal", DB_USER_NAME: "changeme", DB_NAME: "academy"},
			want: false,
		},
		{
			name: "everything empty",
			env:  EnviornmentVariable{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.UseRemoteStore(); got != tt.want {
				t.Errorf("UseRemoteStore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoogleVerificationEnabled(t *testing.T) {
	env := EnviornmentVariable{GOOGLE_CLIENT_ID: "1234567890-abc.apps.googleusercontent.com"}
	if !env.GoogleVerificationEnabled() {
		t.Error("a real client id should enable verification")
	}

	for _, placeholder := range []string{"", "your-google-client-id", "XXX-client-id", "example-client"} {
		env := EnviornmentVariable{GOOGLE_CLIENT_ID: placeholder}
		if env.GoogleVerificationEnabled() {
			t.Errorf("placeholder %q should not enable verification", placeholder)
		}
	}
}

func TestSpacesConfigured(t *testing.T) {
	env := EnviornmentVariable{
		DO_SPACES_KEY:    "AKIA123",
		DO_SPACES_SECRET: "secret",
		DO_SPACES_BUCKET: "certs",
	}
	if !env.SpacesConfigured() {
		t.Error("real credentials should enable Spaces")
	}

	env.DO_SPACES_SECRET = "your_spaces_secret"
	if env.SpacesConfigured() {
		t.Error("a placeholder secret should disable Spaces")
	}
}

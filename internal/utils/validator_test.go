package utils

import "testing"

type registrationForm struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
}

func TestValidateRegistrationForm(t *testing.T) {
	tests := []struct {
		name    string
		form    registrationForm
		wantErr bool
	}{
		{"valid", registrationForm{Username: "alice_01", Password: "Sup3rSecret"}, false},
		{"username with spaces", registrationForm{Username: "alice smith", Password: "Sup3rSecret"}, true},
		{"password too short", registrationForm{Username: "alice", Password: "Ab1"}, true},
		{"password without digits", registrationForm{Username: "alice", Password: "NoDigitsHere"}, true},
		{"password without uppercase", registrationForm{Username: "alice", Password: "alllower123"}, true},
		{"missing fields", registrationForm{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.form)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

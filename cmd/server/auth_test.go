package main

import (
	"strings"
	"testing"
)

func TestSessionValueRoundTrip(t *testing.T) {
	auth := newAuthService(nil, "secret-one")

	value := auth.createSessionValue(sessionSubject)
	subject, ok := auth.verifySessionValue(value)
	if !ok {
		t.Fatal("valid session value did not verify")
	}
	if subject != sessionSubject {
		t.Fatalf("subject = %q, want %q", subject, sessionSubject)
	}
}

func TestSessionValueRejectsTampering(t *testing.T) {
	auth := newAuthService(nil, "secret-one")
	value := auth.createSessionValue(sessionSubject)

	cases := map[string]string{
		"missing signature": strings.Split(value, ".")[0],
		"extended signature": value + "00",
		"empty value":       "",
		"garbage":           "not-a-session",
	}
	for name, tampered := range cases {
		if _, ok := auth.verifySessionValue(tampered); ok {
			t.Fatalf("%s: tampered session value verified", name)
		}
	}
}

func TestSessionValueRejectsOtherSecret(t *testing.T) {
	a := newAuthService(nil, "secret-one")
	b := newAuthService(nil, "secret-two")

	if _, ok := b.verifySessionValue(a.createSessionValue(sessionSubject)); ok {
		t.Fatal("session value signed with another secret verified")
	}
}

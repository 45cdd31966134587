package handler

import (
	"encoding/base64"
	"net/http"
)

const flashCookieName = "flash"

// Flash messages shown to the user after a state change.
const (
	flashUsernameTaken     = "Username already exists!"
	flashRegistered        = "Registration successful. Please log in."
	flashBadCredentials    = "Invalid username or password."
	flashLoggedIn          = "Logged in successfully!"
	flashLoggedOut         = "You have been logged out."
	flashLoginRequired     = "Please log in to access this page."
	flashEmptyText         = "Please enter some text to analyze."
	flashAnalysisSaved     = "Analysis saved successfully!"
	flashMissingCredential = "Username and password are required."
)

// setFlash stores a one-shot message for the next page render.
func setFlash(w http.ResponseWriter, message string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request, secure bool) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	message, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(message)
}

// redirectWithFlash sets a flash message and redirects with 303 See Other.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string, secure bool) {
	setFlash(w, message, secure)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

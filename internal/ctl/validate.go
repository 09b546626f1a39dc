package ctl

import (
	"fmt"
	"strings"
)

// Validate checks a TLE file against the daemon's validation endpoint and
// prints the parsed satellite metadata.
func Validate(baseURL, path string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	tle, err := readTLEFile(path)
	if err != nil {
		return err
	}

	req := map[string]string{
		"name":      tle.Name,
		"tle_line1": tle.Line1,
		"tle_line2": tle.Line2,
	}

	var resp struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Satellite struct {
			Name    string `json:"name"`
			NoradID int    `json:"norad_id"`
			Epoch   string `json:"epoch"`
		} `json:"satellite"`
	}
	if err := postJSON(baseURL, "/api/validate-tle", req, &resp); err != nil {
		if jsonOutput {
			return printJSON(map[string]any{"success": false, "error": err.Error()})
		}
		fmt.Println()
		fmt.Printf("  %s  %s\n", colorize(red, "INVALID"), err.Error())
		fmt.Println()
		return nil
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n", colorize(green, "VALID"), resp.Message)
	if resp.Satellite.Name != "" {
		fmt.Printf("  %-10s %s\n", colorize(dim, "Name:"), resp.Satellite.Name)
	}
	fmt.Printf("  %-10s %d\n", colorize(dim, "NORAD:"), resp.Satellite.NoradID)
	fmt.Printf("  %-10s %s\n", colorize(dim, "Epoch:"), resp.Satellite.Epoch)
	fmt.Println()

	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// Exercises a running server against a handful of assets.

const defaultBaseURL = "http://localhost:8080/api"

type assetState struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Asset  struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Rank     int    `json:"rank"`
		PriceUsd string `json:"priceUsd"`
	} `json:"asset"`
	History []struct {
		Date     time.Time `json:"date"`
		PriceUsd string    `json:"priceUsd"`
	} `json:"history"`
}

func main() {
	baseURL := os.Getenv("SAMPLE_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ids := []string{"bitcoin", "ethereum", "solana", "not-a-real-asset"}
	if len(os.Args) > 1 {
		ids = os.Args[1:]
	}

	for _, id := range ids {
		state, code := getAsset(baseURL, id)
		switch state.Status {
		case "loaded":
			fmt.Printf("%-18s #%d %s (%s) price=%s history=%d points\n",
				id, state.Asset.Rank, state.Asset.Name, state.Asset.Symbol, state.Asset.PriceUsd, len(state.History))
		case "failed":
			fmt.Printf("%-18s failed (%d): %s\n", id, code, state.Error)
		default:
			fmt.Printf("%-18s still %s (%d)\n", id, state.Status, code)
		}
	}

	for _, id := range ids {
		invalidate(baseURL, id)
	}
	fmt.Println("Queries invalidated")
}

func getAsset(baseURL, id string) (assetState, int) {
	resp, err := http.Get(baseURL + "/assets/" + id)
	if err != nil {
		log.Fatalf("Failed to get asset %s: %v", id, err)
	}
	defer resp.Body.Close()

	var state assetState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		log.Fatalf("Failed to decode asset response: %v", err)
	}
	return state, resp.StatusCode
}

func invalidate(baseURL, id string) {
	req, err := http.NewRequest(http.MethodDelete, baseURL+"/assets/"+id+"/query", nil)
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Failed to invalidate %s: %v", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		log.Fatalf("Failed to invalidate %s: status %d", id, resp.StatusCode)
	}
}

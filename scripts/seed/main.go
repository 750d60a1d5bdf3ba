// Package main implements a standalone seed script that populates a running
// mess review service with realistic demo ratings and complaints through the
// HTTP API. The outlet and food item catalog itself is seeded by the service's
// migrations; this script only adds user activity on top of it.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Catalog IDs from the service's seed migration.
var outlets = map[string]string{
	"North Mess":      "11111111-1111-4111-8111-111111111101",
	"South Mess":      "11111111-1111-4111-8111-111111111102",
	"Central Canteen": "11111111-1111-4111-8111-111111111103",
	"Night Canteen":   "11111111-1111-4111-8111-111111111104",
	"Campus Dhaba":    "11111111-1111-4111-8111-111111111105",
	"Brew Point":      "11111111-1111-4111-8111-111111111106",
}

var foodItems = map[string]string{
	"Masala Dosa":    "22222222-2222-4222-8222-222222222201",
	"Rajma Chawal":   "22222222-2222-4222-8222-222222222202",
	"Chole Bhature":  "22222222-2222-4222-8222-222222222203",
	"Maggi":          "22222222-2222-4222-8222-222222222207",
	"Butter Chicken": "22222222-2222-4222-8222-222222222208",
	"Cold Coffee":    "22222222-2222-4222-8222-222222222210",
}

var students = []string{
	"Priya Sharma", "Rahul Verma", "Ananya Iyer", "Arjun Nair",
	"Sneha Patel", "Vikram Singh", "Meera Krishnan", "Aditya Rao",
}

var reviewTexts = []string{
	"Pretty decent today, the rotis were fresh.",
	"Too oily for my taste but edible.",
	"Best meal on campus this week.",
	"Queue was long but worth the wait.",
	"Portion sizes have gotten smaller.",
	"Surprisingly good, would eat again.",
}

var complaintTexts = []string{
	"Lunch was served cold two days in a row.",
	"The serving counters were not cleaned after breakfast.",
	"Menu has not changed in three weeks.",
	"Found the drinking water dispenser out of order again.",
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mintToken(secret, userID, name, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"name":    name,
		"role":    role,
		"sub":     userID,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func httpPost(url, token string, body any) (int, map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(respBody, &decoded)
	return resp.StatusCode, decoded, nil
}

func main() {
	baseURL := getEnv("MESSREVIEW_URL", "http://localhost:8080")
	secret := getEnv("JWT_SECRET", "change-this-to-a-secure-secret")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("seeding demo activity against %s", baseURL)

	ratings := 0
	for i, name := range students {
		userID := fmt.Sprintf("seed-student-%d-%d", i, time.Now().Unix())
		token, err := mintToken(secret, userID, name, "USER")
		if err != nil {
			log.Fatalf("mint token: %v", err)
		}

		for outletName, outletID := range outlets {
			if rng.Intn(3) == 0 {
				continue
			}
			status, _, err := httpPost(baseURL+"/api/v1/ratings", token, map[string]any{
				"target_type": "OUTLET",
				"target_id":   outletID,
				"stars":       2 + rng.Intn(4),
				"review_text": reviewTexts[rng.Intn(len(reviewTexts))],
				"anonymous":   rng.Intn(4) == 0,
			})
			if err != nil {
				log.Fatalf("rate %s: %v", outletName, err)
			}
			if status == http.StatusCreated {
				ratings++
			}
		}

		for itemName, itemID := range foodItems {
			if rng.Intn(2) == 0 {
				continue
			}
			status, _, err := httpPost(baseURL+"/api/v1/ratings", token, map[string]any{
				"target_type": "FOOD_ITEM",
				"target_id":   itemID,
				"stars":       1 + rng.Intn(5),
				"review_text": reviewTexts[rng.Intn(len(reviewTexts))],
			})
			if err != nil {
				log.Fatalf("rate %s: %v", itemName, err)
			}
			if status == http.StatusCreated {
				ratings++
			}
		}
	}
	log.Printf("created %d ratings", ratings)

	complaints := 0
	for i, text := range complaintTexts {
		userID := fmt.Sprintf("seed-complainer-%d-%d", i, time.Now().Unix())
		token, err := mintToken(secret, userID, students[i%len(students)], "USER")
		if err != nil {
			log.Fatalf("mint token: %v", err)
		}

		outletID := outlets["North Mess"]
		if i%2 == 1 {
			outletID = outlets["South Mess"]
		}
		status, _, err := httpPost(baseURL+"/api/v1/complaints", token, map[string]any{
			"outlet_id": outletID,
			"text":      text,
			"anonymous": i%3 == 0,
		})
		if err != nil {
			log.Fatalf("file complaint: %v", err)
		}
		if status == http.StatusCreated {
			complaints++
		}
	}
	log.Printf("created %d complaints", complaints)

	log.Println("seed complete")
}

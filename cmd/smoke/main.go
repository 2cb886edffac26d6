// Command smoke drives a running portal through login, search, chat and
// logout and prints each response.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/fatih/color"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) send(method, path string, body interface{}) (int, envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return 0, envelope{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, envelope{}, err
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, env, err
	}
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env, nil
}

func prettyPrint(raw json.RawMessage) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func step(c *client, title, method, path string, body interface{}) envelope {
	color.Yellow("\n%s  %s %s", title, method, path)
	code, env, err := c.send(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if code >= 400 {
		color.Red("Status: %d %s", code, env.Message)
	} else {
		color.Green("Status: %d %s", code, env.Message)
	}
	prettyPrint(env.Data)
	return env
}

func main() {
	base := flag.String("base", envOr("PORTAL_BASE_URL", "http://localhost:3000/api"), "API base URL")
	query := flag.String("q", "pay", "search query")
	chat := flag.String("chat", "When does add/drop close?", "chat message")
	flag.Parse()

	c := &client{baseURL: *base, http: &http.Client{Timeout: 30 * time.Second}}
	color.Cyan("Howdy Portal smoke test against %s", *base)

	login := step(c, "[AUTH] Login", "POST", "/auth/login", map[string]string{"username": "reveille", "password": "whoop"})
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(login.Data, &auth); err != nil || auth.AccessToken == "" {
		color.Red("No token in login response")
		os.Exit(1)
	}
	c.token = auth.AccessToken

	search := step(c, "[PORTAL] Search", "POST", "/portal/search", map[string]string{"query": *query})
	var results struct {
		Results []struct {
			Title            string `json:"title"`
			TargetCategoryId string `json:"target_category_id"`
		} `json:"results"`
	}
	_ = json.Unmarshal(search.Data, &results)
	if len(results.Results) > 0 {
		top := results.Results[0]
		step(c, "[PORTAL] Select top result", "POST", "/portal/search/select", map[string]string{
			"title":              top.Title,
			"target_category_id": top.TargetCategoryId,
		})
	}

	step(c, "[PORTAL] Toggle menu", "POST", "/portal/menu/"+url.PathEscape("Campus Services")+"/toggle", nil)
	step(c, "[CHAT] Send message", "POST", "/chat/messages", map[string]string{"chat": *chat})
	step(c, "[NEWS] Smart brief", "POST", "/news/0/brief", nil)
	step(c, "[AUTH] Logout", "POST", "/auth/logout", nil)
	step(c, "[PORTAL] State after logout (expect 401)", "GET", "/portal/state", nil)

	color.Cyan("\nDone.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

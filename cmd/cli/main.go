package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "users":
		handleUsers(args)
	case "company":
		handleCompany(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: castingdesk auth <login|logout|who>")
		return
	}

	switch args[0] {
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func handleUsers(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: castingdesk users <list|create>")
		return
	}

	switch args[0] {
	case "list":
		listUsers()
	case "create":
		createUser(args[1:])
	default:
		fmt.Printf("unknown users command: %s\n", args[0])
	}
}

func handleCompany(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: castingdesk company <list|create>")
		return
	}

	switch args[0] {
	case "list":
		listCompanies()
	case "create":
		createCompany(args[1:])
	default:
		fmt.Printf("unknown company command: %s\n", args[0])
	}
}

// Auth commands
func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/signin", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["sessionId"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Signed in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Sign-in failed: %v\n", result)
	}
}

func logoutUser() {
	req, _ := http.NewRequest("POST", getAPIURL()+"/auth/signout", nil)
	addAuthHeader(req)
	if resp, err := http.DefaultClient.Do(req); err == nil {
		resp.Body.Close()
	}
	os.Remove(tokenFile())
	fmt.Println("✓ Signed out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not signed in")
		return
	}
	short := token
	if len(short) > 12 {
		short = short[:12]
	}
	fmt.Printf("✓ Signed in (session: %s...)\n", short)
}

// User commands
func listUsers() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/users", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Request failed: %v\n", result)
		return
	}

	var users []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&users)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tADMIN")
	for _, u := range users {
		fmt.Fprintf(w, "%v\t%v\t%v\n", u["id"], u["email"], u["isAdmin"])
	}
	w.Flush()
}

func createUser(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")
	admin := fs.Bool("admin", false, "grant service admin tier")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{"email": *email, "password": *password, "isAdmin": *admin}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/users", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ User created: %v (id %v)\n", result["email"], result["id"])
	} else {
		fmt.Printf("✗ Create failed: %v\n", result)
	}
}

// Company commands
func listCompanies() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/company", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Request failed: %v\n", result)
		return
	}

	var companies []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&companies)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE")
	for _, c := range companies {
		fmt.Fprintf(w, "%v\t%v\n", c["id"], c["title"])
	}
	w.Flush()
}

func createCompany(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "company title")
	fs.Parse(args)

	if *title == "" {
		fmt.Println("Error: title is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"title": *title}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/company", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ Company created: %v (id %v)\n", result["title"], result["id"])
	} else {
		fmt.Printf("✗ Create failed: %v\n", result)
	}
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("CASTINGDESK_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.castingdesk/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.castingdesk", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`CastingDesk CLI

Usage:
  castingdesk <command> [options]

Commands:
  auth     Authentication (login, logout, who)
  users    User administration (list, create) - admin access required
  company  Company operations (list, create)
  help     Show this help message

Environment Variables:
  CASTINGDESK_API    API endpoint (default: http://localhost:8080/api)

Examples:
  castingdesk auth login -email admin@example.com -password secret
  castingdesk users list
  castingdesk company create -title "Acme Casting"
`)
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// Minimal employee shape served by the mock directory.
type Employee struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Active       bool    `json:"active"`
	Admin        bool    `json:"admin"`
	SupervisorID *string `json:"supervisorId,omitempty"`
}

var supervisor = "emp-1"

var roster = []Employee{
	{ID: "emp-1", FullName: "Laura Mendoza", Email: "laura@example.com", Active: true, Admin: true},
	{ID: "emp-2", FullName: "Carlos Rivera", Email: "carlos@example.com", Active: true, SupervisorID: &supervisor},
	{ID: "emp-3", FullName: "Ana Torres", Email: "ana@example.com", Active: true, SupervisorID: &supervisor},
	{ID: "emp-4", FullName: "Miguel Ortiz", Email: "miguel@example.com", Active: false, SupervisorID: &supervisor},
}

func rosterHandler(w http.ResponseWriter, r *http.Request) {
	var out []Employee
	onlyActive := r.URL.Query().Get("status") == "active"
	for _, e := range roster {
		if onlyActive && !e.Active {
			continue
		}
		out = append(out, e)
	}
	log.Printf("Serving roster (%d employees)", len(out))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func employeeHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/employees/")
	for _, e := range roster {
		if e.ID == id {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(e)
			return
		}
	}
	http.Error(w, fmt.Sprintf("no employee %s", id), http.StatusNotFound)
}

func main() {
	http.HandleFunc("/employees", rosterHandler)
	http.HandleFunc("/employees/", employeeHandler)
	log.Println("HR directory mock server starting on port 8081...")
	log.Fatal(http.ListenAndServe(":8081", nil))
}

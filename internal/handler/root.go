package handler

import (
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "SkillForge API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"arenas": []map[string]string{
				{"method": "GET", "path": "/arenas", "description": "Lister les arènes (statut dérivé de l'horloge)"},
				{"method": "GET", "path": "/arenas/{id}", "description": "Détail d'une arène"},
				{"method": "POST", "path": "/arenas/{id}/join", "description": "Rejoindre une arène active"},
				{"method": "GET", "path": "/arenas/{id}/leaderboard", "description": "Classement d'une arène"},
			},
			"quests": []map[string]string{
				{"method": "GET", "path": "/quests", "description": "Lister les quêtes (params: category, difficulty)"},
				{"method": "GET", "path": "/quests/{id}", "description": "Détail d'une quête"},
				{"method": "POST", "path": "/quests/{id}/complete", "description": "Compléter une quête (XP, streak, skill blend)"},
			},
			"leaderboard": []map[string]string{
				{"method": "GET", "path": "/leaderboard", "description": "Classement global XP (params: limit, offset)"},
				{"method": "GET", "path": "/leaderboard/podium", "description": "Top 3 réordonné pour le podium"},
			},
			"users": []map[string]string{
				{"method": "GET", "path": "/users/{id}", "description": "Profil d'un apprenant (niveau recalculé)"},
				{"method": "POST", "path": "/users/{id}/avatar", "description": "Upload de l'avatar"},
			},
			"clans": []map[string]string{
				{"method": "GET", "path": "/clans", "description": "Lister les clans"},
				{"method": "GET", "path": "/clans/leaderboard", "description": "Classement des clans par XP cumulé"},
			},
			"feed": []map[string]string{
				{"method": "GET", "path": "/feed", "description": "Fil d'activité récent"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check (jamais mis en cache)"},
			},
		},
	}

	utils.Success(w, routes)
}

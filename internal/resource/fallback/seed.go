// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fallback

import "github.com/taibuivan/riddlerush/internal/resource"

var ts = resource.MustTimestamp

// Seed returns the demo aggregate installed when nothing is stored yet.
func Seed() Snapshot {
	return Snapshot{
		Campaigns: []Campaign{
			{ID: "1", Name: "Math Riddles Challenge", CreatedAt: ts("2024-01-15"), Status: CampaignActive, QuestionCount: 2},
			{ID: "2", Name: "Logic Puzzles", CreatedAt: ts("2024-01-10"), Status: CampaignCompleted, QuestionCount: 1},
			{ID: "3", Name: "Word Games", CreatedAt: ts("2024-01-08"), Status: CampaignDraft, QuestionCount: 0},
			{ID: "4", Name: "Blockchain & Crypto Quiz", CreatedAt: ts("2024-01-12"), Status: CampaignActive, QuestionCount: 3},
		},
		Questions: []Question{
			{ID: "1", CampaignID: "1",
				Question:   "What has keys but no locks, space but no room, and you can enter but not go inside?",
				AnswerType: resource.AnswerStatic, Answer: "keyboard",
				StartTime: ts("2024-01-20T10:00:00"), EndTime: ts("2024-01-20T18:00:00"), Status: resource.StatusActive},
			{ID: "2", CampaignID: "1",
				Question:   "I am not alive, but I grow; I don't have lungs, but I need air; I don't have a mouth, but water kills me. What am I?",
				AnswerType: resource.AnswerAIValidated, Answer: "Fire or flame - something that burns and consumes oxygen",
				StartTime: ts("2024-01-21T09:00:00"), EndTime: ts("2024-01-21T17:00:00"), Status: resource.StatusUpcoming},
			{ID: "3", CampaignID: "4",
				Question:   "What is the maximum supply of Bitcoin that can ever exist?",
				AnswerType: resource.AnswerStatic, Answer: "21 million",
				StartTime: ts("2024-01-22T10:00:00"), EndTime: ts("2024-01-22T18:00:00"), Status: resource.StatusActive},
			{ID: "4", CampaignID: "4",
				Question:   "Which consensus mechanism does Ethereum 2.0 use?",
				AnswerType: resource.AnswerStatic, Answer: "Proof of Stake",
				StartTime: ts("2024-01-23T09:00:00"), EndTime: ts("2024-01-23T17:00:00"), Status: resource.StatusUpcoming},
			{ID: "5", CampaignID: "4",
				Question:   "What does DeFi stand for and what is its main purpose in the blockchain ecosystem?",
				AnswerType: resource.AnswerAIValidated,
				Answer:     "Decentralized Finance - aims to recreate traditional financial systems without intermediaries using blockchain technology",
				StartTime: ts("2024-01-24T10:00:00"), EndTime: ts("2024-01-24T18:00:00"), Status: resource.StatusUpcoming},
		},
		Leaderboard: []LeaderboardEntry{
			{ID: "1", CampaignID: "1", Username: "CryptoMaster", Score: 95, CompletedAt: ts("2024-01-20T15:30:00"), TimeSpent: 180},
			{ID: "2", CampaignID: "1", Username: "RiddleSolver", Score: 87, CompletedAt: ts("2024-01-20T16:45:00"), TimeSpent: 240},
			{ID: "3", CampaignID: "4", Username: "BlockchainPro", Score: 100, CompletedAt: ts("2024-01-22T14:20:00"), TimeSpent: 120},
			{ID: "4", CampaignID: "4", Username: "CryptoNinja", Score: 92, CompletedAt: ts("2024-01-22T15:10:00"), TimeSpent: 150},
		},
		ViewMode: ViewGrid,
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/config"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "credit":
		userID, amount := userAmountArgs("credit")
		to := userID
		txn := &models.Transaction{
			ToUserID:    &to,
			Amount:      amount,
			Type:        models.TransactionTypeSystemCredit,
			Description: fmt.Sprintf("System credit of %d coins", amount),
		}
		if err := storageSvc.AdjustBalance(ctx, userID, amount, txn); err != nil {
			log.Fatalf("Error crediting user: %v", err)
		}
		fmt.Printf("Credited %d coins to %s.\n", amount, userID)

	case "debit":
		userID, amount := userAmountArgs("debit")
		from := userID
		txn := &models.Transaction{
			FromUserID:  &from,
			Amount:      amount,
			Type:        models.TransactionTypeSystemDebit,
			Description: fmt.Sprintf("System debit of %d coins", amount),
		}
		if err := storageSvc.AdjustBalance(ctx, userID, -amount, txn); err != nil {
			log.Fatalf("Error debiting user: %v", err)
		}
		fmt.Printf("Debited %d coins from %s.\n", amount, userID)

	case "recount":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin recount <chat_id>")
			os.Exit(1)
		}
		chatID := os.Args[2]
		if err := storageSvc.RecountUnread(ctx, chatID); err != nil {
			log.Fatalf("Error recounting unread: %v", err)
		}
		fmt.Printf("Unread counters for chat %s recomputed.\n", chatID)

	case "purge-typing":
		cutoff := time.Now().Add(-config.TypingLiveWindow)
		n, err := storageSvc.PurgeStaleTyping(ctx, cutoff)
		if err != nil {
			log.Fatalf("Error purging typing indicators: %v", err)
		}
		fmt.Printf("Purged %d stale typing indicators.\n", n)

	case "create-user":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-user <user_id> <display_name>")
			os.Exit(1)
		}
		profile := &models.Profile{ID: os.Args[2], DisplayName: os.Args[3]}
		if err := storageSvc.SaveProfile(ctx, profile); err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("Created user %s (%s).\n", profile.ID, profile.DisplayName)

	case "add-member":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin add-member <chat_id> <user_id>")
			os.Exit(1)
		}
		member := &models.ChatMember{ChatID: os.Args[2], UserID: os.Args[3]}
		if err := storageSvc.SaveMember(ctx, member); err != nil {
			log.Fatalf("Error adding member: %v", err)
		}
		fmt.Printf("Added %s to chat %s.\n", member.UserID, member.ChatID)

	case "transactions":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin transactions <user_id> [limit]")
			os.Exit(1)
		}
		limit := 20
		if len(os.Args) == 4 {
			limit, err = strconv.Atoi(os.Args[3])
			if err != nil || limit <= 0 {
				fmt.Println("Invalid limit. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		txns, err := storageSvc.ListTransactions(ctx, os.Args[2], limit)
		if err != nil {
			log.Fatalf("Error listing transactions: %v", err)
		}
		for _, t := range txns {
			fmt.Printf("%s  %s  %d  %s\n", t.CreatedAt.Format(time.RFC3339), t.Type, t.Amount, t.Description)
		}

	default:
		usage()
	}
}

func userAmountArgs(cmd string) (string, int64) {
	if len(os.Args) != 4 {
		fmt.Printf("Usage: admin %s <user_id> <amount>\n", cmd)
		os.Exit(1)
	}
	amount, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil || amount <= 0 {
		fmt.Println("Invalid amount. Please provide a positive integer.")
		os.Exit(1)
	}
	return os.Args[2], amount
}

func usage() {
	fmt.Println("Usage: admin <credit|debit|recount|purge-typing|create-user|add-member|transactions> [args]")
	os.Exit(1)
}

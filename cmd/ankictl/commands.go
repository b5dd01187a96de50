package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vytor/ankibridge/internal/bridge"
	"github.com/vytor/ankibridge/internal/mcpserver"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the flashcard provider is usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, bridge.MethodGetStatus, nil)
		},
	}
}

func decksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List decks with learn, review and new counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, bridge.MethodGetDecks, nil)
		},
	}
}

func newCardsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "new-cards <deck-id>",
		Short: "List today's new cards of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck id", args[0])
			if err != nil {
				return err
			}
			callArgs := bridge.Args{"deckId": deckID}
			if cmd.Flags().Changed("limit") {
				callArgs["limit"] = limit
			}
			return call(cmd, bridge.MethodGetTodayNewCards, callArgs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", bridge.DefaultNewCardLimit, "maximum number of cards")
	return cmd
}

func appendCmd() *cobra.Command {
	var (
		modelID int64
		field   string
		text    string
		marker  string
	)
	cmd := &cobra.Command{
		Use:   "append <note-id>",
		Short: "Append text and a marker to one field of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := parseID("note id", args[0])
			if err != nil {
				return err
			}
			callArgs := bridge.Args{
				"noteId":         noteID,
				"modelId":        modelID,
				"targetFieldKey": field,
				"generatedText":  text,
			}
			if marker != "" {
				callArgs["marker"] = marker
			}
			return call(cmd, bridge.MethodAppendToNoteField, callArgs)
		},
	}
	cmd.Flags().Int64Var(&modelID, "model", 0, "note type id")
	cmd.Flags().StringVar(&field, "field", "", "target field name")
	cmd.Flags().StringVar(&text, "text", "", "text to append")
	cmd.Flags().StringVar(&marker, "marker", "", "idempotency marker (default 1122)")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the bridge as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.New(running.Bridge, version).ServeStdio()
		},
	}
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

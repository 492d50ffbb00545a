package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the California government services knowledge base semantically. Returns relevant passages with their source documents."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// classifyIntentTool defines the classify_intent MCP tool.
var classifyIntentTool = mcp.NewTool("classify_intent",
	mcp.WithDescription("Classify an utterance against the DMV service intent catalog and extract any form field values found in it."),
	mcp.WithString("utterance",
		mcp.Required(),
		mcp.Description("The user utterance to classify"),
	),
)

// getFormTemplateTool defines the get_form_template MCP tool.
var getFormTemplateTool = mcp.NewTool("get_form_template",
	mcp.WithDescription("Get the form name and required field list for a DMV service intent."),
	mcp.WithString("intent",
		mcp.Required(),
		mcp.Description("The intent identifier, e.g. address_change or vehicle_registration"),
	),
)

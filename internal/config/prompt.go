package config

// DefaultPromptTemplate is the built-in analysis prompt. The placeholders
// {filename}, {lang}, and {code} are substituted by the orchestrator when a
// file is dispatched to the LLM. The template demands a fenced JSON graph so
// the extractor's highest-priority strategy can find it.
const DefaultPromptTemplate = "You are a senior software engineer specialized in source-code analysis and systems architecture.\n" +
	"Your mission is to analyze the provided source file and structure your answer in the two sections described below.\n\n" +
	"--------------------------------\n" +
	"### SECTION 1: MANDATORY JSON GRAPH FORMAT\n" +
	"For the graph task you MUST produce JSON strictly following this structure, filling every field you can\n" +
	"from your analysis of the code, including `group`, `shape`, `color` and especially `metadata`:\n\n" +
	"```json\n" +
	"{\n" +
	"  \"nodes\": [],\n" +
	"  \"edges\": [],\n" +
	"  \"meta\": {}\n" +
	"}\n" +
	"```\n\n" +
	"--------------------------------\n" +
	"### SECTION 2: YOUR TASKS\n\n" +
	"Based on the source code below, perform the following tasks:\n\n" +
	"1.  **TECHNICAL ANALYSIS:**\n" +
	"    - Write a clear, technical analysis of the code's purpose and functionality.\n" +
	"    - Describe the main responsibilities of each class/function.\n" +
	"    - Explain the business logic and the end-to-end execution flow.\n\n" +
	"2.  **CALL GRAPH (JSON):**\n" +
	"    - Produce a complete JSON graph mapping the interactions and calls in the code.\n" +
	"    - Follow the rich format from SECTION 1 rigorously.\n\n" +
	"--- SOURCE FILE: {filename} ---\n" +
	"```{lang}\n{code}\n```\n\n" +
	"--- FULL ANALYSIS ---\n"

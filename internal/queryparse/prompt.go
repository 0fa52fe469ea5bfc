package queryparse

import (
	"fmt"
	"strings"
)

const classifyPrompt = `You are an assistant that converts a user's insurance-policy question into a concise JSON object.
Return ONLY a JSON object - no extra text. Use snake_case in every string.

First determine whether the query contains one single topic or multiple distinct topics.

The JSON must have exactly four keys:

Case 1: single topic
1. "key_word"   - the single most important phrase (1-4 words) the retrieval engine should weight higher.
2. "sub_query"  - a list of short, standalone questions that together cover every aspect of the query.
                  If the user is really asking just one thing, put one concise sentence in the list.
3. "raw_query"  - the original user query, verbatim.
4. "query_type" - one of: yes_no, definition, numeric_factoid, listing, sub_limit, procedural, eligibility, others.

Case 2: multiple distinct topics
1. "key_word"   - the most important key phrase for each topic, combined into one string separated by "; ".
2. "sub_query"  - one standalone question per topic, in the same order as the key phrases.
3. "raw_query"  - the original user query, verbatim.
4. "query_type" - "others".

Examples:

User: "Does this policy cover maternity expenses, and what are the conditions?"
JSON:
{
  "key_word": "maternity_expenses",
  "sub_query": ["coverage_and_conditions_of_maternity_expenses"],
  "raw_query": "Does this policy cover maternity expenses, and what are the conditions?",
  "query_type": "yes_no"
}

User: "How does the policy define a hospital?"
JSON:
{
  "key_word": "hospital_definition",
  "sub_query": ["definition_of_hospital"],
  "raw_query": "How does the policy define a hospital?",
  "query_type": "definition"
}

User: "What is the waiting period for pre-existing diseases to be covered?"
JSON:
{
  "key_word": "pre_existing_diseases",
  "sub_query": ["waiting_period_for_pre_existing_diseases"],
  "raw_query": "What is the waiting period for pre-existing diseases to be covered?",
  "query_type": "numeric_factoid"
}

User: "What documents must I submit to file a hospitalization claim?"
JSON:
{
  "key_word": "hospitalization_claim_documents",
  "sub_query": ["required_documents_for_hospitalization_claim"],
  "raw_query": "What documents must I submit to file a hospitalization claim?",
  "query_type": "listing"
}

User: "What is the daily room-rent sub-limit under Plan A?"
JSON:
{
  "key_word": "room_rent_sub_limit",
  "sub_query": ["daily_room_rent_sub_limit_under_plan_a"],
  "raw_query": "What is the daily room-rent sub-limit under Plan A?",
  "query_type": "sub_limit"
}

User: "How many days will it take the insurer to settle my claim after submission?"
JSON:
{
  "key_word": "claim_settlement_timeline",
  "sub_query": ["settlement_period_after_claim_submission"],
  "raw_query": "How many days will it take the insurer to settle my claim after submission?",
  "query_type": "procedural"
}

User: "Who is eligible for the preventive health check-up benefit?"
JSON:
{
  "key_word": "preventive_health_checkup",
  "sub_query": ["eligibility_for_preventive_health_checkup_benefit"],
  "raw_query": "Who is eligible for the preventive health check-up benefit?",
  "query_type": "eligibility"
}

User: "Describe the steps to port a prior policy from another insurer, list documents needed for a post-hospitalization medicine claim, and provide the toll-free customer service number."
JSON:
{
  "key_word": "policy_portability_steps; post_hospitalization_claim_documents; customer_service_number",
  "sub_query": ["what_are_the_steps_to_port_a_health_insurance_policy", "what_documents_are_needed_for_a_post_hospitalization_claim", "what_is_the_toll_free_customer_service_number"],
  "raw_query": "Describe the steps to port a prior policy from another insurer, list documents needed for a post-hospitalization medicine claim, and provide the toll-free customer service number.",
  "query_type": "others"
}

Now convert the following user query.`

// BuildPrompt assembles the classification prompt for a user query.
func BuildPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString(classifyPrompt)
	sb.WriteString("\n\nUser: ")
	sb.WriteString(fmt.Sprintf("%q", query))
	sb.WriteString("\nJSON:\n")
	return sb.String()
}

// BuildRepairPrompt asks the model to fix output that failed to parse or
// validate, quoting both the broken output and the reason.
func BuildRepairPrompt(query, brokenOutput string, parseErr error) string {
	var sb strings.Builder
	sb.WriteString("Your previous answer could not be parsed into the required JSON schema.\n\n")
	sb.WriteString("Error: ")
	sb.WriteString(parseErr.Error())
	sb.WriteString("\n\nPrevious answer:\n")
	sb.WriteString(brokenOutput)
	sb.WriteString("\n\nReturn ONLY a corrected JSON object with exactly the four keys ")
	sb.WriteString(`"key_word", "sub_query", "raw_query", "query_type" `)
	sb.WriteString("for this user query.\n\nUser: ")
	sb.WriteString(fmt.Sprintf("%q", query))
	sb.WriteString("\nJSON:\n")
	return sb.String()
}

package guide

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every generation request.
const SystemPrompt = "You are an expert in SLO (Service Level Objective) implementation and the SLODLC methodology. Generate comprehensive, actionable SLO Implementation Guides."

// promptIntro takes the platform name and its guidance sentence.
const promptIntro = `You are an SLO (Service Level Objective) expert specializing in the SLODLC (SLO Development Lifecycle) methodology. Your task is to generate a comprehensive SLO Implementation Guide based on a completed SLODLC Discovery worksheet.

## Context

The SLODLC (SLO Development Lifecycle) is a structured approach for implementing Service Level Objectives. After completing the Discovery phase, teams need a detailed Implementation Guide that translates the Discovery findings into actionable steps for configuring SLIs (Service Level Indicators) and SLOs in their observability platform.

## Observability Platform

The SLO Implementation Guide should be tailored for: **%[1]s**

Please provide platform-specific instructions, configuration examples, and best practices relevant to this observability platform. %[2]s

## Discovery Worksheet Content

Below is the completed SLODLC Discovery worksheet:

`

// promptBody takes the platform name.
const promptBody = `

## Instructions

Generate a comprehensive SLO Implementation Guide that matches the format and structure of professional SLO implementation documentation. The guide should be practical, actionable, and specific to the service described in the Discovery worksheet.

## Required Sections

Your SLO Implementation Guide MUST include the following sections:

1. **Service Overview**
   - Service name and description
   - Key stakeholders and owners
   - Business context and importance

2. **SLI Definitions**
   - Specific SLIs identified from the Discovery worksheet
   - SLI calculation methods
   - Data sources and metrics
   - Measurement approach

3. **SLO Targets**
   - Specific SLO targets (e.g., 99.9%% availability, p95 latency < 200ms)
   - Target justification based on Discovery findings
   - Time windows (e.g., 30-day rolling window)

4. **Error Budgets**
   - Error budget calculations
   - Error budget policies
   - Burn rate considerations

5. **Implementation Steps**
   - Step-by-step instructions for configuring SLIs in %[1]s
   - Step-by-step instructions for configuring SLOs in %[1]s
   - Platform-specific configuration examples
   - Integration with existing monitoring

6. **Monitoring and Alerting**
   - Alerting rules based on error budget burn rate
   - Dashboard configuration recommendations
   - Notification channels
   - Escalation procedures

7. **Validation and Testing**
   - How to validate SLI/SLO configuration
   - Testing procedures
   - Verification steps

8. **Maintenance and Review**
   - Periodic review schedule
   - Update procedures
   - Continuous improvement recommendations

## Output Format

- Format the output as well-structured Markdown
- Use clear headings and subheadings
- Include code blocks for configuration examples
- Use tables where appropriate for clarity
- Ensure the document is professional and ready for use by engineering teams

## Important Notes

- Base all recommendations on the actual content of the Discovery worksheet
- Provide specific, actionable guidance rather than generic advice
- Include %[1]s-specific syntax and examples
- Ensure all SLI/SLO definitions are measurable and achievable
- Consider the service's dependencies and constraints mentioned in the Discovery worksheet

Begin generating the SLO Implementation Guide now.
`

// BuildPrompt constructs the full generation prompt for a worksheet.
func BuildPrompt(content string, platform Platform) string {
	return buildPrompt(content, platform, "")
}

// BuildChunkPrompt constructs the prompt for one part of a worksheet that
// was split to fit the token budget. Index is 1-based.
func BuildChunkPrompt(content string, platform Platform, index, total int) string {
	note := fmt.Sprintf("This is part %d of %d of the worksheet. Generate the guide sections this part supports; the parts will be merged in order afterwards.", index, total)
	return buildPrompt(content, platform, note)
}

func buildPrompt(content string, platform Platform, chunkNote string) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptIntro, platform, platform.guidance())
	if chunkNote != "" {
		b.WriteString(chunkNote)
		b.WriteString("\n\n")
	}
	b.WriteString("```\n")
	b.WriteString(content)
	b.WriteString("\n```")
	fmt.Fprintf(&b, promptBody, platform)
	return b.String()
}

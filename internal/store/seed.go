package store

import (
	"time"

	"github.com/noah-isme/boltpath-api/internal/models"
)

// DemoTeacherID owns every record in the demo seed.
const DemoTeacherID = "teacher1"

// DemoSeed returns the sample roster loaded when demo data is enabled.
func DemoSeed() Seed {
	return Seed{
		Students: []models.Student{
			{
				ID:          "1",
				FullName:    "Alice Johnson",
				Grade:       "10th Grade",
				PhoneNumber: "(555) 123-4567",
				TeacherID:   DemoTeacherID,
				LearningProfile: models.LearningProfile{
					LearningStyle:              models.LearningStyleVisual,
					Strengths:                  []string{"Critical thinking", "Visual processing", "Collaboration"},
					Challenges:                 []string{"Time management", "Written expression"},
					Accommodations:             []string{"Extended time", "Visual aids", "Graphic organizers"},
					PreferredAssessmentMethods: []string{"Portfolio", "Presentation", "Project-based"},
					Notes:                      "Excels in group work and benefits from visual supports. Needs scaffolding for written tasks.",
				},
				EmergencyContact: &models.EmergencyContact{
					Name:         "Sarah Johnson",
					Relationship: "Mother",
					Phone:        "(555) 123-4568",
				},
			},
			{
				ID:          "2",
				FullName:    "Bob Smith",
				Grade:       "9th Grade",
				PhoneNumber: "(555) 987-6543",
				TeacherID:   DemoTeacherID,
				LearningProfile: models.LearningProfile{
					LearningStyle:              models.LearningStyleKinesthetic,
					Strengths:                  []string{"Problem-solving", "Hands-on learning", "Leadership"},
					Challenges:                 []string{"Attention to detail", "Sitting still for long periods"},
					Accommodations:             []string{"Movement breaks", "Fidget tools", "Standing desk option"},
					PreferredAssessmentMethods: []string{"Practical demonstration", "Oral presentation"},
					Notes:                      "Benefits from hands-on activities and frequent movement. Strong leader in group settings.",
				},
			},
		},
		Assignments: []models.Assignment{
			{
				ID:               "1",
				Title:            "Climate Change Solutions for Our Community",
				ProblemStatement: "How can our local community reduce its carbon footprint by 30% within the next 5 years while maintaining economic growth?",
				RealWorldContext: "Local government has requested student input on sustainable development plans for the city.",
				LearningObjectives: []string{
					"Analyze environmental data and identify patterns",
					"Research and evaluate renewable energy solutions",
					"Collaborate effectively in diverse teams",
					"Present evidence-based recommendations to stakeholders",
				},
				AssessmentCriteria: []models.AssessmentCriterion{
					{Criterion: "Research Quality", Weight: 25, Rubric: "Use of credible sources, data analysis, evidence quality"},
					{Criterion: "Problem-Solving", Weight: 30, Rubric: "Innovation, feasibility, impact assessment"},
					{Criterion: "Collaboration", Weight: 20, Rubric: "Team contribution, communication, conflict resolution"},
					{Criterion: "Presentation", Weight: 25, Rubric: "Clarity, organization, audience engagement"},
				},
				Resources: []string{
					"EPA Climate Data Portal",
					"Local Environmental Assessment Reports",
					"Expert Interview Contacts",
					"Community Survey Tools",
				},
				Timeline: []models.TimelinePhase{
					{Phase: "Research & Investigation", Duration: "2 weeks", Activities: []string{"Literature review", "Data collection", "Expert interviews"}},
					{Phase: "Solution Development", Duration: "2 weeks", Activities: []string{"Brainstorming", "Feasibility analysis", "Prototype creation"}},
					{Phase: "Implementation Planning", Duration: "1 week", Activities: []string{"Action plan creation", "Stakeholder mapping", "Impact assessment"}},
					{Phase: "Presentation & Reflection", Duration: "1 week", Activities: []string{"Final presentation preparation", "Peer feedback", "Self-reflection"}},
				},
				DueDate:           "2025-09-15",
				StudentIDs:        []string{"1", "2"},
				TeacherID:         DemoTeacherID,
				Status:            models.AssignmentStatusActive,
				CollaborationType: models.CollaborationSmallGroups,
				SkillsFocus:       []string{"Critical thinking", "Research skills", "Environmental literacy", "Public speaking"},
			},
		},
		Progress: []models.StudentProgress{
			{
				StudentID:           "1",
				AssignmentID:        "1",
				CurrentPhase:        1,
				CompletedActivities: []string{"Literature review", "Data collection"},
				ReflectionNotes:     "Finding it challenging to synthesize information from multiple sources",
				TeacherObservations: "Strong visual processing skills evident. Benefits from graphic organizers.",
				AccommodationsUsed:  []string{"Extended time", "Visual aids"},
				LastUpdated:         time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

package sqlinline

const QSelectPreferencesByUser = `--sql 878fc620-1af0-46d6-9070-a9f1d8c73578
select
    id::text,
    user_id::text,
    coalesce(industries, '{}'),
    coalesce(locations, '{}'),
    coalesce(keywords, '{}'),
    salary_min,
    salary_max,
    coalesce(job_types, '{}'),
    auto_apply,
    coalesce(cover_message, ''),
    created_at,
    updated_at
from job_preferences
where user_id = $1::uuid
limit 1;
`

const QUpsertPreferences = `--sql b993adb8-a6b0-4ea1-9ce6-ca2d846a2b5a
insert into job_preferences (id, user_id, industries, locations, keywords, salary_min, salary_max, job_types, auto_apply, cover_message, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text[], $3::text[], $4::text[], $5::int, $6::int, $7::text[], $8::boolean, $9::text, now(), now())
on conflict (user_id) do update set
    industries = excluded.industries,
    locations = excluded.locations,
    keywords = excluded.keywords,
    salary_min = excluded.salary_min,
    salary_max = excluded.salary_max,
    job_types = excluded.job_types,
    auto_apply = excluded.auto_apply,
    cover_message = excluded.cover_message,
    updated_at = now()
returning id::text, created_at, updated_at;
`

const QListAutoApplyUsers = `--sql a0ec4398-33d0-4eb4-aaf4-5f02c1dbabc1
select p.user_id::text
from job_preferences p
join users u on u.id = p.user_id
where p.auto_apply
order by p.updated_at, p.user_id;
`

package sqlinline

const QInsertUser = `--sql 5cedc8fd-d72c-4d18-8252-104077e339f0
insert into users (id, username, email, password_hash, full_name, plan, created_at, updated_at)
values (gen_random_uuid(), $1::text, lower($2::text), $3::text, $4::text, $5::text, now(), now())
returning id::text, created_at, updated_at;
`

const QSelectUserByID = `--sql f5607b52-c311-4455-b5d6-016be00b779f
select id::text, username, email, password_hash, full_name, plan, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByLogin = `--sql ccead163-f93a-4224-b2f6-377d70b22c16
select id::text, username, email, password_hash, full_name, plan, created_at, updated_at
from users
where lower(email) = lower($1::text)
   or lower(username) = lower($1::text)
order by created_at
limit 1;
`

const QUpdateUserPlan = `--sql c2afa655-f81f-4365-abee-55a81b342917
update users
set plan = $2::text,
    updated_at = now()
where id = $1::uuid
returning id::text, username, email, password_hash, full_name, plan, created_at, updated_at;
`
